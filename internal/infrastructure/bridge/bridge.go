// Package bridge exposes the three boundary operations used by front ends:
// enhancePrompt, getModels and testConnection. Results always carry a success
// flag; failures carry a user-facing message instead of a Go error.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Messages returned without reaching the dispatcher.
const (
	MessageBusy    = "An enhancement is already in progress."
	MessageGeneric = "An error occurred while enhancing the prompt."
)

// EnhanceRequest is the enhancePrompt input.
type EnhanceRequest struct {
	APIKey    string `json:"apiKey"`
	Prompt    string `json:"prompt"`
	Language  string `json:"language"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	OllamaURL string `json:"ollamaUrl"`
}

// Settings converts the request into dispatcher settings.
func (r EnhanceRequest) Settings() domain.Settings {
	return domain.Settings{
		Provider:       domain.ProviderKind(strings.ToLower(strings.TrimSpace(r.Provider))),
		APIKey:         r.APIKey,
		Model:          r.Model,
		OutputLanguage: r.Language,
		OllamaURL:      r.OllamaURL,
	}
}

// EnhanceResult is the enhancePrompt output.
type EnhanceResult struct {
	Success        bool   `json:"success"`
	EnhancedPrompt string `json:"enhancedPrompt,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ModelsRequest is the getModels input.
type ModelsRequest struct {
	Provider  string `json:"provider"`
	APIKey    string `json:"apiKey"`
	OllamaURL string `json:"ollamaUrl"`
}

// ModelsResult is the getModels output. A successful result always carries a
// models array, possibly empty.
type ModelsResult struct {
	Success bool                     `json:"-"`
	Models  []domain.ModelDescriptor `json:"-"`
	Error   string                   `json:"-"`
}

// MarshalJSON omits models on failure and error on success.
func (r ModelsResult) MarshalJSON() ([]byte, error) {
	wire := struct {
		Success bool                      `json:"success"`
		Models  *[]domain.ModelDescriptor `json:"models,omitempty"`
		Error   string                    `json:"error,omitempty"`
	}{Success: r.Success, Error: r.Error}
	if r.Success {
		models := r.Models
		if models == nil {
			models = []domain.ModelDescriptor{}
		}
		wire.Models = &models
	}
	return json.Marshal(wire)
}

// ConnectionRequest is the testConnection input.
type ConnectionRequest struct {
	OllamaURL string `json:"ollamaUrl"`
}

// SimpleResult is the testConnection output.
type SimpleResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Bridge adapts the dispatcher to the boundary contract. Only one
// enhancement may be in flight at a time.
type Bridge struct {
	dispatcher ports.Dispatcher
	history    ports.HistoryRepository
	logger     ports.Logger

	inflight sync.Mutex
}

// New builds a Bridge. history may be nil to skip recording.
func New(dispatcher ports.Dispatcher, history ports.HistoryRepository, logger ports.Logger) *Bridge {
	return &Bridge{dispatcher: dispatcher, history: history, logger: logger}
}

// EnhancePrompt runs one enhancement and records it in history on success.
func (b *Bridge) EnhancePrompt(ctx context.Context, req EnhanceRequest) EnhanceResult {
	if !b.inflight.TryLock() {
		return EnhanceResult{Error: MessageBusy}
	}
	defer b.inflight.Unlock()

	prompt := strings.TrimSpace(req.Prompt)
	text, err := b.dispatcher.Enhance(ctx, req.Settings(), prompt)
	if err != nil {
		return EnhanceResult{Error: b.message(err, "enhance")}
	}
	if b.history != nil {
		b.history.Append(prompt, text)
	}
	return EnhanceResult{Success: true, EnhancedPrompt: text}
}

// GetModels lists the models of the requested provider.
func (b *Bridge) GetModels(ctx context.Context, req ModelsRequest) ModelsResult {
	settings := domain.Settings{
		Provider:  domain.ProviderKind(strings.ToLower(strings.TrimSpace(req.Provider))),
		APIKey:    req.APIKey,
		OllamaURL: req.OllamaURL,
	}
	models, err := b.dispatcher.ListModels(ctx, settings)
	if err != nil {
		return ModelsResult{Error: b.message(err, "models")}
	}
	return ModelsResult{Success: true, Models: models}
}

// TestConnection probes the Ollama server at req.OllamaURL.
func (b *Bridge) TestConnection(ctx context.Context, req ConnectionRequest) SimpleResult {
	if err := b.dispatcher.TestConnection(ctx, req.OllamaURL); err != nil {
		return SimpleResult{Error: b.message(err, "test-connection")}
	}
	return SimpleResult{Success: true}
}

func (b *Bridge) message(err error, op string) string {
	b.logger.Error("boundary operation failed", err, map[string]interface{}{"op": op})

	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return MessageGeneric
}
