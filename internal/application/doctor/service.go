// Package doctor runs environment diagnostics for the enhancer.
package doctor

import (
	"context"
	"fmt"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

const probeKey = "doctor_probe"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.KeyValueStore
	Settings       ports.SettingsStore
	Dispatcher     ports.Dispatcher
}

// Run executes checks and returns a report. Only a config load failure
// aborts the run.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s, %s storage", cfg.ConfigFormatVersion, cfg.GetStorageBackend())))

	checks = append(checks, s.storageCheck())

	settings := s.Settings.Load()
	if err := settings.Validate(); err != nil {
		checks = append(checks, warn("Settings", err.Error()))
	} else {
		checks = append(checks, ok("Settings", fmt.Sprintf("%s / %s", settings.ProviderKind().DisplayName(), settings.Model)))
	}

	checks = append(checks, s.providerCheck(ctx, settings))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) storageCheck() domain.HealthCheck {
	if s.Store == nil {
		return warn("Storage", "store not initialized")
	}
	if err := s.Store.Set(probeKey, "ok"); err != nil {
		return fail("Storage", fmt.Sprintf("%s not writable: %v", s.Store.Path(), err))
	}
	if err := s.Store.Delete(probeKey); err != nil {
		return warn("Storage", fmt.Sprintf("probe cleanup failed: %v", err))
	}
	return ok("Storage", s.Store.Path())
}

// providerCheck reaches the provider without spending tokens: Ollama gets a
// tags probe, OpenRouter a model listing.
func (s *Service) providerCheck(ctx context.Context, settings domain.Settings) domain.HealthCheck {
	if s.Dispatcher == nil {
		return warn("Provider", "dispatcher not initialized")
	}

	kind := settings.ProviderKind()
	if kind == domain.ProviderOllama {
		if err := s.Dispatcher.TestConnection(ctx, settings.OllamaURL); err != nil {
			return fail("Provider", fmt.Sprintf("Ollama at %s: %v", settings.BaseOllamaURL(), err))
		}
		return ok("Provider", fmt.Sprintf("Ollama reachable at %s", settings.BaseOllamaURL()))
	}

	if settings.APIKey == "" {
		return warn("Provider", "OpenRouter API key not set")
	}
	models, err := s.Dispatcher.ListModels(ctx, settings)
	if err != nil {
		return fail("Provider", fmt.Sprintf("OpenRouter: %v", err))
	}
	if settings.Model != "" && !hasModel(models, settings.Model) {
		return warn("Provider", fmt.Sprintf("OpenRouter reachable, but %s is not among %d free models", settings.Model, len(models)))
	}
	return ok("Provider", fmt.Sprintf("OpenRouter reachable, %d free models", len(models)))
}

func hasModel(models []domain.ModelDescriptor, id string) bool {
	_, found := domain.FindModel(models, id)
	return found
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
