// Package ai maps the uniform enhancement settings onto provider wire formats.
//
// Two providers are supported:
//   - OpenRouter: OpenAI-compatible chat completions with bearer auth
//   - Ollama: the native /api/chat and /api/tags endpoints, no auth
//
// Adapters only describe requests and decode responses; they never touch the
// network. The dispatcher in application/enhance performs the single HTTP call.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

const (
	// NoResponseText is returned when a provider answered without any content.
	NoResponseText = "No response generated"

	// DefaultOpenRouterBaseURL is the public OpenRouter API root.
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	appIdentity = "AI Prompt Enhancer"
	contentType = "application/json"
)

// ====================================================================================
// Factory
// ====================================================================================

// Factory resolves provider adapters.
type Factory struct {
	adapters map[domain.ProviderKind]ports.ProviderAdapter
}

// Option customises a Factory.
type Option func(*factoryOptions)

type factoryOptions struct {
	openRouterBaseURL string
}

// WithOpenRouterBaseURL points the OpenRouter adapter at another API root.
func WithOpenRouterBaseURL(baseURL string) Option {
	return func(o *factoryOptions) {
		o.openRouterBaseURL = baseURL
	}
}

// NewFactory builds a factory with both adapters registered.
func NewFactory(opts ...Option) *Factory {
	options := factoryOptions{openRouterBaseURL: DefaultOpenRouterBaseURL}
	for _, opt := range opts {
		opt(&options)
	}
	return &Factory{
		adapters: map[domain.ProviderKind]ports.ProviderAdapter{
			domain.ProviderOpenRouter: newOpenRouterAdapter(options.openRouterBaseURL),
			domain.ProviderOllama:     newOllamaAdapter(),
		},
	}
}

// ForProvider returns the adapter for kind. An empty kind selects the default provider.
func (f *Factory) ForProvider(kind domain.ProviderKind) (ports.ProviderAdapter, error) {
	if kind == "" {
		kind = domain.DefaultProvider
	}
	adapter, ok := f.adapters[kind]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("unsupported provider: %s", kind))
	}
	return adapter, nil
}

var _ ports.AdapterFactory = (*Factory)(nil)

// ====================================================================================
// Provider-keyed helpers
// ====================================================================================

var defaultFactory = NewFactory()

// BuildEnhanceRequest describes the chat request for the settings' provider.
func BuildEnhanceRequest(settings domain.Settings, prompt string) (ports.OutboundRequest, error) {
	adapter, err := defaultFactory.ForProvider(settings.ProviderKind())
	if err != nil {
		return ports.OutboundRequest{}, err
	}
	return adapter.BuildEnhanceRequest(settings, prompt)
}

// ExtractText pulls the completion text out of a provider response body.
func ExtractText(kind domain.ProviderKind, body []byte) (string, error) {
	adapter, err := defaultFactory.ForProvider(kind)
	if err != nil {
		return "", err
	}
	return adapter.ExtractText(body)
}

// BuildModelsRequest describes the model listing request for the settings' provider.
func BuildModelsRequest(settings domain.Settings) (ports.OutboundRequest, error) {
	adapter, err := defaultFactory.ForProvider(settings.ProviderKind())
	if err != nil {
		return ports.OutboundRequest{}, err
	}
	return adapter.BuildModelsRequest(settings)
}

// ParseModels decodes a provider model listing.
func ParseModels(kind domain.ProviderKind, body []byte) ([]domain.ModelDescriptor, error) {
	adapter, err := defaultFactory.ForProvider(kind)
	if err != nil {
		return nil, err
	}
	return adapter.ParseModels(body)
}

// OllamaTagsURL is the endpoint used for both model listing and connectivity probes.
func OllamaTagsURL(baseURL string) string {
	return domain.NormalizeOllamaURL(baseURL) + "/api/tags"
}

// ====================================================================================
// Error bodies
// ====================================================================================

// APIErrorMessage derives a user-facing message from a non-2xx response body.
// It prefers error.message, then a string error field, and otherwise
// synthesises "API Error: <status>".
func APIErrorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("API Error: %d", status)

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return fallback
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
		return nested.Message
	}

	var flat string
	if err := json.Unmarshal(payload.Error, &flat); err == nil && strings.TrimSpace(flat) != "" {
		return flat
	}

	return fallback
}

func marshalBody(provider string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", provider, err)
	}
	return body, nil
}

func orNoResponse(content string) string {
	if content == "" {
		return NoResponseText
	}
	return content
}
