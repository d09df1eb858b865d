package commands_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/application/enhance"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/ai"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/commands"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/history"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/settings"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/storage"
	"github.com/doeshing/prompt-enhancer/internal/pkg/logger"
)

const modelsBody = `{"data":[
	{"id":"meta/llama-3-8b:free","name":"Llama 3 8B","context_length":8192},
	{"id":"openai/gpt-4o","name":"GPT-4o"}
]}`

// fakeOpenRouter answers chat completions and model listings.
func fakeOpenRouter(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/chat/completions":
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"1 - Add table tests"}}]}`)
		case "/models":
			_, _ = io.WriteString(w, modelsBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newContainer(t *testing.T) *app.Container {
	t.Helper()
	srv := fakeOpenRouter(t)
	kv := storage.NewFileStore(afero.NewMemMapFs(), "/data/store.yaml")
	log := logger.Nop()

	settingsStore := settings.NewStore(kv, log)
	settingsStore.Save(domain.Settings{
		Provider:       domain.ProviderOpenRouter,
		APIKey:         "sk-or-v1-test",
		Model:          "meta/llama-3-8b:free",
		OutputLanguage: "English",
	})

	return &app.Container{
		Store:         kv,
		SettingsStore: settingsStore,
		HistoryStore:  history.NewStore(kv, log),
		Dispatcher: &enhance.Service{
			Adapters:   ai.NewFactory(ai.WithOpenRouterBaseURL(srv.URL)),
			HTTPClient: srv.Client(),
			Logger:     log,
		},
		Logger: log,
	}
}

func newRoot(container *app.Container) *cobra.Command {
	root := &cobra.Command{Use: "enhancer", SilenceUsage: true, SilenceErrors: true}
	commands.BindRootEnhance(root, container)
	root.AddCommand(
		commands.NewEnhanceCommand(container),
		commands.NewModelsCommand(container),
		commands.NewSettingsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

func run(t *testing.T, container *app.Container, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRoot(container)
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestEnhanceCommandRecordsHistory(t *testing.T) {
	container := newContainer(t)

	out, err := run(t, container, "", "enhance", "--raw", "add", "tests")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if strings.TrimSpace(out) != "1 - Add table tests" {
		t.Fatalf("unexpected output %q", out)
	}

	records := container.HistoryStore.List()
	if len(records) != 1 || records[0].Input != "add tests" {
		t.Fatalf("unexpected history %+v", records)
	}
}

func TestRootReadsPromptFromStdin(t *testing.T) {
	container := newContainer(t)

	out, err := run(t, container, "refactor the parser\n", "--no-history")
	if err != nil {
		t.Fatalf("root enhance: %v", err)
	}
	if !strings.Contains(out, "Add table tests") {
		t.Fatalf("unexpected output %q", out)
	}
	if n := len(container.HistoryStore.List()); n != 0 {
		t.Fatalf("--no-history recorded %d records", n)
	}
}

func TestEnhanceCommandEmptyPrompt(t *testing.T) {
	_, err := run(t, newContainer(t), "   ", "enhance")
	if err == nil || err.Error() != commands.ErrEmptyPrompt {
		t.Fatalf("got %v, want %q", err, commands.ErrEmptyPrompt)
	}
}

func TestEnhanceCommandJSONFailure(t *testing.T) {
	container := newContainer(t)

	out, err := run(t, container, "", "enhance", "--json", "--model", " ", "x")
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.ErrorKindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(out, `"success": false`) || !strings.Contains(out, `"error"`) {
		t.Fatalf("unexpected JSON %q", out)
	}
}

func TestModelsListShowsFreeModels(t *testing.T) {
	out, err := run(t, newContainer(t), "", "models", "list")
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	if !strings.Contains(out, "* meta/llama-3-8b:free  Llama 3 8B  (8192 ctx)") {
		t.Errorf("selected free model missing from %q", out)
	}
	if strings.Contains(out, "gpt-4o") {
		t.Errorf("paid model listed: %q", out)
	}
}

func TestModelsUse(t *testing.T) {
	container := newContainer(t)

	if _, err := run(t, container, "", "models", "use", "openai/gpt-4o"); err == nil {
		t.Fatal("expected error for a model outside the listing")
	}
	if _, err := run(t, container, "", "models", "use", "--force", "openai/gpt-4o"); err != nil {
		t.Fatalf("models use --force: %v", err)
	}
	if got := container.SettingsStore.Load().Model; got != "openai/gpt-4o" {
		t.Errorf("model not saved, got %q", got)
	}
}

func TestSettingsSet(t *testing.T) {
	container := newContainer(t)

	_, err := run(t, container, "", "settings", "set", "--provider", "ollama", "--model", "llama3", "--ollama-url", "http://box:11434/")
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	saved := container.SettingsStore.Load()
	if saved.Provider != domain.ProviderOllama || saved.OllamaURL != "http://box:11434" || saved.APIKey != "" {
		t.Errorf("unexpected settings %+v", saved)
	}

	_, err = run(t, container, "", "settings", "set", "--provider", "openrouter", "--api-key", "nope")
	if domain.KindOf(err) != domain.ErrorKindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if container.SettingsStore.Load().Provider != domain.ProviderOllama {
		t.Error("invalid settings were saved")
	}

	if _, err := run(t, container, "", "settings", "set"); err == nil {
		t.Error("expected error without flags on a non-interactive stdin")
	}
}

func TestSettingsShowMasksKey(t *testing.T) {
	out, err := run(t, newContainer(t), "", "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if strings.Contains(out, "sk-or-v1-test") || !strings.Contains(out, "OpenRouter") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHistoryCommands(t *testing.T) {
	container := newContainer(t)
	first := container.HistoryStore.Append("first prompt", "first output")
	container.HistoryStore.Append("second prompt", "second output")

	out, err := run(t, container, "", "history", "list", "--limit", "1")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, "second prompt") || strings.Contains(out, "first prompt") {
		t.Errorf("unexpected list %q", out)
	}

	if _, err := run(t, container, "", "history", "delete", "42"); err != nil {
		t.Errorf("deleting an unknown id should be a no-op: %v", err)
	}

	out, err = run(t, container, "", "history", "show", "--raw", strconv.FormatInt(first.ID, 10))
	if err != nil || !strings.Contains(out, "first output") {
		t.Fatalf("history show = %q, %v", out, err)
	}

	if _, err := run(t, container, "", "history", "clear"); err == nil || err.Error() != commands.ErrClearNeedsConfirmation {
		t.Fatalf("clear without confirmation: got %v", err)
	}
	if _, err := run(t, container, "", "history", "clear", "--yes"); err != nil {
		t.Fatalf("history clear --yes: %v", err)
	}
	if n := len(container.HistoryStore.List()); n != 0 {
		t.Errorf("history not cleared, %d records left", n)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, newContainer(t), "", "version")
	if err != nil || !strings.HasPrefix(out, "enhancer version ") {
		t.Fatalf("version = %q, %v", out, err)
	}
}
