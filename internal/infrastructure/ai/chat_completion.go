package ai

import "encoding/json"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openRouterChatRequest is the OpenAI-compatible body OpenRouter expects.
type openRouterChatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type openRouterChatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r openRouterChatResponse) firstContent() string {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil || r.Choices[0].Message.Content == nil {
		return ""
	}
	return *r.Choices[0].Message.Content
}

type openRouterModelsResponse struct {
	Data []struct {
		ID            string             `json:"id"`
		Name          string             `json:"name"`
		ContextLength int                `json:"context_length"`
		Pricing       *openRouterPricing `json:"pricing"`
	} `json:"data"`
}

type openRouterPricing struct {
	Prompt     json.RawMessage `json:"prompt"`
	Completion json.RawMessage `json:"completion"`
	Request    json.RawMessage `json:"request"`
	Image      json.RawMessage `json:"image"`
}

// ollamaChatRequest is the body of POST /api/chat.
type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaChatResponse struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

func (r ollamaChatResponse) content() string {
	if r.Message == nil || r.Message.Content == nil {
		return ""
	}
	return *r.Message.Content
}

type ollamaTagsResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Size       int64  `json:"size"`
		ModifiedAt string `json:"modified_at"`
	} `json:"models"`
}

// priceString renders a pricing value that may arrive as a JSON string or number.
func priceString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
