// Package settings persists the user's provider configuration as individual
// keys in the shared key/value store.
package settings

import (
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Store implements ports.SettingsStore. Every key is read and written
// independently, so one failing key never hides the others.
type Store struct {
	kv     ports.KeyValueStore
	logger ports.Logger
}

// NewStore wraps kv.
func NewStore(kv ports.KeyValueStore, logger ports.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load returns the persisted settings, substituting defaults for missing or
// unreadable keys.
func (s *Store) Load() domain.Settings {
	settings := domain.DefaultSettings()

	if raw, ok := s.get(domain.KeyProvider); ok {
		if kind, err := domain.ParseProvider(raw); err == nil {
			settings.Provider = kind
		} else {
			s.logger.Warn("ignoring stored provider", map[string]interface{}{"value": raw})
		}
	}
	if raw, ok := s.get(domain.KeyAPIKey); ok {
		settings.APIKey = raw
	}
	if raw, ok := s.get(domain.KeyModel); ok {
		settings.Model = raw
	}
	if raw, ok := s.get(domain.KeyLanguage); ok && raw != "" {
		settings.OutputLanguage = raw
	}
	if raw, ok := s.get(domain.KeyOllamaURL); ok && raw != "" {
		settings.OllamaURL = raw
	}

	return settings
}

// Save writes every field. The API key is removed whenever the provider is
// not OpenRouter.
func (s *Store) Save(settings domain.Settings) {
	provider := settings.ProviderKind()

	s.set(domain.KeyProvider, provider.String())
	s.set(domain.KeyModel, settings.Model)
	s.set(domain.KeyLanguage, settings.Language())
	s.set(domain.KeyOllamaURL, domain.NormalizeOllamaURL(settings.OllamaURL))

	if provider == domain.ProviderOpenRouter {
		s.set(domain.KeyAPIKey, settings.APIKey)
		return
	}
	if err := s.kv.Delete(domain.KeyAPIKey); err != nil {
		s.warn("delete", domain.KeyAPIKey, err)
	}
}

// Path reports where the settings live.
func (s *Store) Path() string {
	return s.kv.Path()
}

func (s *Store) get(key string) (string, bool) {
	value, ok, err := s.kv.Get(key)
	if err != nil {
		s.warn("read", key, err)
		return "", false
	}
	return value, ok
}

func (s *Store) set(key, value string) {
	if err := s.kv.Set(key, value); err != nil {
		s.warn("write", key, err)
	}
}

func (s *Store) warn(op, key string, err error) {
	s.logger.Warn("settings "+op+" failed", map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}

var _ ports.SettingsStore = (*Store)(nil)
