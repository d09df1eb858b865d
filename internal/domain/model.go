// Package domain defines core entities and value objects for the prompt enhancer.
//
// The domain layer is independent of infrastructure concerns: settings, model
// descriptors, history records and the error taxonomy shared by every adapter.
package domain

// ModelDescriptor describes one model offered by a provider listing.
// Optional metadata is provider specific and omitted when absent.
type ModelDescriptor struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	ContextLength int           `json:"context_length,omitempty"`
	Pricing       *ModelPricing `json:"pricing,omitempty"`
	Size          int64         `json:"size,omitempty"`
	ModifiedAt    string        `json:"modified_at,omitempty"`
}

// ModelPricing mirrors the OpenRouter pricing object (USD per token, as strings).
type ModelPricing struct {
	Prompt     string `json:"prompt,omitempty"`
	Completion string `json:"completion,omitempty"`
	Request    string `json:"request,omitempty"`
	Image      string `json:"image,omitempty"`
}

// DisplayName returns the model name, falling back to its ID.
func (m ModelDescriptor) DisplayName() string {
	if m.Name == "" {
		return m.ID
	}
	return m.Name
}

// FindModel returns the descriptor with the given id.
func FindModel(models []ModelDescriptor, id string) (ModelDescriptor, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelDescriptor{}, false
}
