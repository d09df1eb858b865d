package helpers_test

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/prompt-enhancer/internal/infrastructure/config"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "multi\nline   prompt", max: 40, want: "multi line prompt"},
		{in: "abcdefghijkl", max: 8, want: "abcde..."},
		{in: "héllo wörld", max: 8, want: "héllo..."},
	}
	for _, tt := range tests {
		if got := helpers.Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:           "512 B",
		2048:          "2.0 KB",
		4_700_000_000: "4.4 GB",
	}
	for in, want := range tests {
		if got := helpers.FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestReadPrompt(t *testing.T) {
	got, err := helpers.ReadPrompt([]string{"add", "tests"}, strings.NewReader("ignored"))
	if err != nil || got != "add tests" {
		t.Fatalf("args: got %q, %v", got, err)
	}

	got, err = helpers.ReadPrompt(nil, strings.NewReader("  from stdin\n"))
	if err != nil || got != "from stdin" {
		t.Fatalf("stdin: got %q, %v", got, err)
	}

	got, err = helpers.ReadPrompt(nil, nil)
	if err != nil || got != "" {
		t.Fatalf("nil reader: got %q, %v", got, err)
	}
}

func TestParseHistoryID(t *testing.T) {
	if id, err := helpers.ParseHistoryID(" 1700000000000 "); err != nil || id != 1700000000000 {
		t.Fatalf("got %d, %v", id, err)
	}
	if _, err := helpers.ParseHistoryID("latest"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestLimitRecords(t *testing.T) {
	records := make([]domain.HistoryRecord, 5)
	if got := helpers.LimitRecords(records, 3); len(got) != 3 {
		t.Errorf("limit 3 kept %d", len(got))
	}
	if got := helpers.LimitRecords(records, 0); len(got) != 5 {
		t.Errorf("limit 0 kept %d", len(got))
	}
}

func TestFormatHistoryLine(t *testing.T) {
	rec := domain.HistoryRecord{ID: 42, Input: "fix the flaky test", Date: time.Now()}
	line := helpers.FormatHistoryLine(rec)
	if !strings.HasPrefix(line, "42  ") || !strings.HasSuffix(line, "fix the flaky test") {
		t.Errorf("unexpected line %q", line)
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := configinfra.DefaultConfig()

	updated, err := helpers.SetConfigValue(cfg, []string{"network", "enhance_timeout"}, "90s")
	if err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}
	want := cfg
	want.Network.EnhanceTimeout = "90s"
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := helpers.SetConfigValue(cfg, []string{"network", "nope"}, "1s"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestParseYAMLValue(t *testing.T) {
	if got := helpers.ParseYAMLValue("8"); got != 8 {
		t.Errorf("got %#v, want 8", got)
	}
	if got := helpers.ParseYAMLValue("file"); got != "file" {
		t.Errorf("got %#v, want file", got)
	}
}

func TestPromptForChoice(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("\nollama\n"))
	options := []string{"openrouter", "ollama"}

	if got := helpers.PromptForChoice(&out, reader, "Provider", options, "openrouter"); got != "openrouter" {
		t.Errorf("empty answer should keep default, got %q", got)
	}
	if got := helpers.PromptForChoice(&out, reader, "Provider", options, "openrouter"); got != "ollama" {
		t.Errorf("got %q, want ollama", got)
	}
	if !strings.Contains(out.String(), "(openrouter/ollama) [openrouter]") {
		t.Errorf("unexpected prompt %q", out.String())
	}
}

func TestPromptForConfirmation(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("yes\n\n"))

	if !helpers.PromptForConfirmation(&out, reader, "Delete?") {
		t.Error("yes should confirm")
	}
	if helpers.PromptForConfirmation(&out, reader, "Delete?") {
		t.Error("empty answer should default to no")
	}
}

func TestPrinterPlainOutput(t *testing.T) {
	var out bytes.Buffer
	p := helpers.NewPrinter(&out)

	p.Success("saved %s", "x")
	p.Markdown("# Title", false)
	p.Health(domain.HealthReport{Checks: []domain.HealthCheck{{Name: "Storage", Status: domain.HealthWarn, Details: "slow"}}})

	want := "[OK] saved x\n# Title\n[WARN] Storage - slow\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}
