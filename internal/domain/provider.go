package domain

import (
	"fmt"
	"strings"
)

// ProviderKind identifies a chat-completion backend.
type ProviderKind string

const (
	ProviderOpenRouter ProviderKind = "openrouter"
	ProviderOllama     ProviderKind = "ollama"
)

// DefaultProvider is used whenever no provider has been chosen.
const DefaultProvider = ProviderOpenRouter

// SupportedProviders lists every provider the adapters understand.
func SupportedProviders() []ProviderKind {
	return []ProviderKind{ProviderOpenRouter, ProviderOllama}
}

// ParseProvider normalises a provider name. Empty input maps to DefaultProvider.
func ParseProvider(raw string) (ProviderKind, error) {
	switch ProviderKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return DefaultProvider, nil
	case ProviderOpenRouter:
		return ProviderOpenRouter, nil
	case ProviderOllama:
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", raw)
	}
}

func (k ProviderKind) String() string {
	return string(k)
}

// DisplayName is the human readable provider label.
func (k ProviderKind) DisplayName() string {
	switch k {
	case ProviderOpenRouter:
		return "OpenRouter"
	case ProviderOllama:
		return "Ollama"
	default:
		return string(k)
	}
}
