// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The dispatcher and the boundary bridge depend only on
// these abstractions; storage engines, HTTP clients and provider wire formats live
// behind them.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProviderAdapter, SettingsStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"net/http"

	"github.com/doeshing/prompt-enhancer/internal/domain"
)

// ConfigProvider loads the application configuration from persistent storage.
// Implementations typically read from ~/.prompt-enhancer/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.AppConfig, error)
}

// OutboundRequest is a provider-specific HTTP request described as plain data,
// so it can be inspected before anything touches the network.
type OutboundRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// ProviderAdapter hides one provider's request and response shapes.
type ProviderAdapter interface {
	Kind() domain.ProviderKind
	BuildEnhanceRequest(settings domain.Settings, prompt string) (OutboundRequest, error)
	ExtractText(body []byte) (string, error)
	BuildModelsRequest(settings domain.Settings) (OutboundRequest, error)
	ParseModels(body []byte) ([]domain.ModelDescriptor, error)
}

// AdapterFactory resolves the adapter for a provider.
type AdapterFactory interface {
	ForProvider(domain.ProviderKind) (ProviderAdapter, error)
}

// HTTPDoer performs a single HTTP round trip. *http.Client satisfies it.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Dispatcher is the uniform entry point used by every UI collaborator.
type Dispatcher interface {
	Enhance(ctx context.Context, settings domain.Settings, prompt string) (string, error)
	ListModels(ctx context.Context, settings domain.Settings) ([]domain.ModelDescriptor, error)
	TestConnection(ctx context.Context, ollamaURL string) error
}

// KeyValueStore is the single logical store backing settings and history.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Path() string
}

// SettingsStore loads and saves user settings. Storage failures are absorbed.
type SettingsStore interface {
	Load() domain.Settings
	Save(domain.Settings)
}

// HistoryRepository manages the bounded prompt history. Storage failures are absorbed.
type HistoryRepository interface {
	Append(input, output string) domain.HistoryRecord
	List() []domain.HistoryRecord
	Get(id int64) (domain.HistoryRecord, bool)
	Remove(id int64)
	Clear()
}

// ConfirmationPrompter asks the user before destructive operations.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
	Enabled() bool
}

// Clipboard provides cross-platform clipboard integration for copying results.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
