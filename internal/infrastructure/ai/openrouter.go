package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

const (
	openRouterTemperature = 0.7
	openRouterMaxTokens   = 2000
	freeModelMarker       = ":free"
)

type openRouterAdapter struct {
	baseURL string
}

func newOpenRouterAdapter(baseURL string) *openRouterAdapter {
	return &openRouterAdapter{baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *openRouterAdapter) Kind() domain.ProviderKind {
	return domain.ProviderOpenRouter
}

func (a *openRouterAdapter) BuildEnhanceRequest(settings domain.Settings, prompt string) (ports.OutboundRequest, error) {
	messages, err := renderMessages(settings, prompt)
	if err != nil {
		return ports.OutboundRequest{}, err
	}

	body, err := marshalBody("openrouter", openRouterChatRequest{
		Model:       settings.Model,
		Messages:    messages,
		Temperature: openRouterTemperature,
		MaxTokens:   openRouterMaxTokens,
	})
	if err != nil {
		return ports.OutboundRequest{}, err
	}

	headers := a.authHeaders(settings.APIKey)
	headers["HTTP-Referer"] = appIdentity
	headers["X-Title"] = appIdentity

	return ports.OutboundRequest{
		Method:  http.MethodPost,
		URL:     a.baseURL + "/chat/completions",
		Headers: headers,
		Body:    body,
	}, nil
}

func (a *openRouterAdapter) ExtractText(body []byte) (string, error) {
	var response openRouterChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("openrouter: decode response: %w", err)
	}
	return orNoResponse(response.firstContent()), nil
}

func (a *openRouterAdapter) BuildModelsRequest(settings domain.Settings) (ports.OutboundRequest, error) {
	return ports.OutboundRequest{
		Method:  http.MethodGet,
		URL:     a.baseURL + "/models",
		Headers: a.authHeaders(settings.APIKey),
	}, nil
}

// ParseModels keeps only free models, matching what the settings screen offers.
func (a *openRouterAdapter) ParseModels(body []byte) ([]domain.ModelDescriptor, error) {
	var response openRouterModelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("openrouter: decode models: %w", err)
	}

	models := make([]domain.ModelDescriptor, 0, len(response.Data))
	for _, entry := range response.Data {
		if !strings.Contains(entry.ID, freeModelMarker) {
			continue
		}
		model := domain.ModelDescriptor{
			ID:            entry.ID,
			Name:          entry.Name,
			ContextLength: entry.ContextLength,
		}
		if entry.Pricing != nil {
			model.Pricing = &domain.ModelPricing{
				Prompt:     priceString(entry.Pricing.Prompt),
				Completion: priceString(entry.Pricing.Completion),
				Request:    priceString(entry.Pricing.Request),
				Image:      priceString(entry.Pricing.Image),
			}
		}
		models = append(models, model)
	}
	return models, nil
}

func (a *openRouterAdapter) authHeaders(apiKey string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  contentType,
	}
}

var _ ports.ProviderAdapter = (*openRouterAdapter)(nil)
