package doctor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/doeshing/prompt-enhancer/internal/application/doctor"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/settings"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/storage"
	"github.com/doeshing/prompt-enhancer/internal/pkg/logger"
)

type stubConfigProvider struct {
	cfg domain.AppConfig
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.AppConfig, error) {
	return s.cfg, s.err
}

type stubDispatcher struct {
	models []domain.ModelDescriptor
	err    error
	probed string
	listed bool
}

func (s *stubDispatcher) Enhance(context.Context, domain.Settings, string) (string, error) {
	return "", errors.New("doctor must not enhance")
}

func (s *stubDispatcher) ListModels(context.Context, domain.Settings) ([]domain.ModelDescriptor, error) {
	s.listed = true
	return s.models, s.err
}

func (s *stubDispatcher) TestConnection(_ context.Context, url string) error {
	s.probed = url
	return s.err
}

func newService(saved domain.Settings, dispatcher *stubDispatcher) *doctor.Service {
	kv := storage.NewFileStore(afero.NewMemMapFs(), "/data/store.yaml")
	store := settings.NewStore(kv, logger.Nop())
	store.Save(saved)
	return &doctor.Service{
		ConfigProvider: stubConfigProvider{cfg: domain.AppConfig{ConfigFormatVersion: "1"}},
		Store:          kv,
		Settings:       store,
		Dispatcher:     dispatcher,
	}
}

func statusOf(report domain.HealthReport, name string) domain.HealthStatus {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	return ""
}

func TestDoctorHealthyOllama(t *testing.T) {
	dispatcher := &stubDispatcher{}
	svc := newService(domain.Settings{Provider: domain.ProviderOllama, Model: "llama3", OllamaURL: "http://box:11434"}, dispatcher)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected errors: %+v", report.Checks)
	}
	if dispatcher.probed != "http://box:11434" {
		t.Fatalf("expected ollama probe, got %q", dispatcher.probed)
	}
	for _, name := range []string{"Config file", "Storage", "Settings", "Provider"} {
		if statusOf(report, name) != domain.HealthOK {
			t.Fatalf("%s not ok: %+v", name, report.Checks)
		}
	}
}

func TestDoctorUnreachableProvider(t *testing.T) {
	dispatcher := &stubDispatcher{err: domain.NewHTTPError(401, "Invalid API key")}
	svc := newService(domain.Settings{Provider: domain.ProviderOpenRouter, APIKey: "sk-or-v1-x", Model: "m:free"}, dispatcher)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !dispatcher.listed || statusOf(report, "Provider") != domain.HealthError {
		t.Fatalf("expected provider failure, got %+v", report.Checks)
	}
}

func TestDoctorMissingKeySkipsNetwork(t *testing.T) {
	dispatcher := &stubDispatcher{}
	svc := newService(domain.Settings{Provider: domain.ProviderOpenRouter, Model: "m:free"}, dispatcher)

	report, _ := svc.Run(context.Background())
	if dispatcher.listed {
		t.Fatalf("model listing should be skipped without a key")
	}
	if statusOf(report, "Settings") != domain.HealthWarn || statusOf(report, "Provider") != domain.HealthWarn {
		t.Fatalf("expected warnings, got %+v", report.Checks)
	}
}

func TestDoctorConfigFailure(t *testing.T) {
	svc := &doctor.Service{ConfigProvider: stubConfigProvider{err: errors.New("bad yaml")}}

	report, err := svc.Run(context.Background())
	if err == nil || !report.HasErrors() {
		t.Fatalf("expected config failure, got %v %+v", err, report)
	}
}
