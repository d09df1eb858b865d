package ai

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/doeshing/prompt-enhancer/assets"
	"github.com/doeshing/prompt-enhancer/internal/domain"
)

const userPromptPrefix = "Transform this prompt into an optimized version for AI coding assistants:\n\n"

type templateData struct {
	Language string
}

var (
	systemTemplateOnce sync.Once
	systemTemplate     *template.Template
	systemTemplateErr  error
)

func loadSystemTemplate() (*template.Template, error) {
	systemTemplateOnce.Do(func() {
		systemTemplate, systemTemplateErr = template.New("system").Option("missingkey=error").Parse(assets.SystemPromptTemplate)
	})
	return systemTemplate, systemTemplateErr
}

// renderSystemPrompt expands the shared instruction for the given output language.
func renderSystemPrompt(language string) (string, error) {
	tmpl, err := loadSystemTemplate()
	if err != nil {
		return "", fmt.Errorf("parse system prompt: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Language: language}); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderUserPrompt wraps the raw prompt in the user instruction.
func renderUserPrompt(prompt string) string {
	return userPromptPrefix + prompt
}

// renderMessages builds the two-message conversation shared by every provider.
func renderMessages(settings domain.Settings, prompt string) ([]chatMessage, error) {
	system, err := renderSystemPrompt(settings.Language())
	if err != nil {
		return nil, err
	}
	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: renderUserPrompt(prompt)},
	}, nil
}
