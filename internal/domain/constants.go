package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Settings defaults
const (
	// DefaultOutputLanguage is used when no language was chosen
	DefaultOutputLanguage = "English"
	// DefaultOllamaURL points at a local Ollama daemon
	DefaultOllamaURL = "http://localhost:11434"

	openRouterKeyPrefix = "sk-"
)

// Persisted key names. These match the keys written by earlier desktop
// releases so existing stores keep working.
const (
	KeyProvider      = "ai_provider"
	KeyAPIKey        = "openrouter_api_key"
	KeyOllamaURL     = "ollama_url"
	KeyLanguage      = "selectedLanguage"
	KeyModel         = "selected_model"
	KeyPromptHistory = "prompt_history"
)

// History constants
const (
	// MaxHistoryRecords bounds the persisted history
	MaxHistoryRecords = 50
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Timeout and duration constants
const (
	// DefaultEnhanceTimeout bounds a single enhancement call
	DefaultEnhanceTimeout = 60 * time.Second
	// DefaultModelsTimeout bounds a model listing call
	DefaultModelsTimeout = 30 * time.Second
	// DefaultConnectionTimeout bounds an Ollama connectivity probe
	DefaultConnectionTimeout = 10 * time.Second
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
