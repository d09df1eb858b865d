package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Settings is the user-editable configuration persisted between runs.
// Exactly one provider is active at a time; APIKey is only meaningful for
// OpenRouter.
type Settings struct {
	Provider       ProviderKind `json:"provider" yaml:"provider"`
	APIKey         string       `json:"apiKey,omitempty" yaml:"api_key,omitempty"`
	Model          string       `json:"model" yaml:"model"`
	OutputLanguage string       `json:"language" yaml:"language"`
	OllamaURL      string       `json:"ollamaUrl" yaml:"ollama_url"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Provider:       DefaultProvider,
		OutputLanguage: DefaultOutputLanguage,
		OllamaURL:      DefaultOllamaURL,
	}
}

// ProviderKind returns the active provider, defaulting to OpenRouter.
func (s Settings) ProviderKind() ProviderKind {
	if s.Provider == "" {
		return DefaultProvider
	}
	return s.Provider
}

// Language returns the output language with default fallback.
func (s Settings) Language() string {
	if strings.TrimSpace(s.OutputLanguage) == "" {
		return DefaultOutputLanguage
	}
	return s.OutputLanguage
}

// BaseOllamaURL returns the Ollama server URL without a trailing slash.
func (s Settings) BaseOllamaURL() string {
	return NormalizeOllamaURL(s.OllamaURL)
}

// RequiresAPIKey reports whether the active provider authenticates with an API key.
func (s Settings) RequiresAPIKey() bool {
	return s.ProviderKind() == ProviderOpenRouter
}

// Redacted returns a copy safe for display with the API key masked.
func (s Settings) Redacted() Settings {
	s.APIKey = MaskSecret(s.APIKey)
	return s
}

// Validate applies the checks a settings form performs before saving.
func (s Settings) Validate() error {
	var errs []error

	if _, err := ParseProvider(string(s.Provider)); err != nil {
		errs = append(errs, err)
	}

	if s.RequiresAPIKey() {
		key := strings.TrimSpace(s.APIKey)
		switch {
		case key == "":
			errs = append(errs, errors.New("Please enter your OpenRouter API key."))
		case !strings.HasPrefix(key, openRouterKeyPrefix):
			errs = append(errs, fmt.Errorf("Invalid API key format. Key should start with %q", openRouterKeyPrefix))
		}
	}

	if strings.TrimSpace(s.Model) == "" {
		errs = append(errs, errors.New("Please select a model."))
	}

	if len(errs) == 0 {
		return nil
	}
	return NewValidationError(errors.Join(errs...).Error())
}

// NormalizeOllamaURL trims whitespace and trailing slashes, substituting the
// default URL when empty.
func NormalizeOllamaURL(raw string) string {
	url := strings.TrimRight(strings.TrimSpace(raw), "/")
	if url == "" {
		return DefaultOllamaURL
	}
	return url
}

// MaskSecret keeps the first and last characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 12 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:5] + strings.Repeat("*", len(secret)-9) + secret[len(secret)-4:]
}
