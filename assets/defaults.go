package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// SystemPromptTemplate is the instruction sent ahead of every user prompt.
// It is a text/template rendered with the output language.
//
//go:embed defaults/system_prompt.tmpl
var SystemPromptTemplate string
