package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// ollamaAdapter talks to a local Ollama daemon. It never sends credentials.
type ollamaAdapter struct{}

func newOllamaAdapter() *ollamaAdapter {
	return &ollamaAdapter{}
}

func (a *ollamaAdapter) Kind() domain.ProviderKind {
	return domain.ProviderOllama
}

func (a *ollamaAdapter) BuildEnhanceRequest(settings domain.Settings, prompt string) (ports.OutboundRequest, error) {
	messages, err := renderMessages(settings, prompt)
	if err != nil {
		return ports.OutboundRequest{}, err
	}

	body, err := marshalBody("ollama", ollamaChatRequest{
		Model:    settings.Model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return ports.OutboundRequest{}, err
	}

	return ports.OutboundRequest{
		Method:  http.MethodPost,
		URL:     settings.BaseOllamaURL() + "/api/chat",
		Headers: map[string]string{"Content-Type": contentType},
		Body:    body,
	}, nil
}

func (a *ollamaAdapter) ExtractText(body []byte) (string, error) {
	var response ollamaChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	return orNoResponse(response.content()), nil
}

func (a *ollamaAdapter) BuildModelsRequest(settings domain.Settings) (ports.OutboundRequest, error) {
	return ports.OutboundRequest{
		Method: http.MethodGet,
		URL:    OllamaTagsURL(settings.OllamaURL),
	}, nil
}

func (a *ollamaAdapter) ParseModels(body []byte) ([]domain.ModelDescriptor, error) {
	var response ollamaTagsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ollama: decode models: %w", err)
	}

	models := make([]domain.ModelDescriptor, 0, len(response.Models))
	for _, entry := range response.Models {
		models = append(models, domain.ModelDescriptor{
			ID:         entry.Name,
			Name:       entry.Name,
			Size:       entry.Size,
			ModifiedAt: entry.ModifiedAt,
		})
	}
	return models, nil
}

var _ ports.ProviderAdapter = (*ollamaAdapter)(nil)
