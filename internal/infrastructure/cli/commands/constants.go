package commands

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrSettingsUnavailable      = "settings store unavailable"
	ErrEmptyPrompt              = "no prompt given: pass it as arguments or pipe it on stdin"
	ErrClearNeedsConfirmation   = "refusing to clear history without confirmation (use --yes)"
	ErrRemoteListen             = "refusing to listen on a non-loopback address without --allow-remote"
)

// Success messages
const (
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
	MsgCopied                   = "Copied to clipboard."
	MsgSettingsSaved            = "Settings saved."
	MsgConnectionOK             = "Connected to Ollama at %s"
	MsgFixSettings              = "Run 'enhancer settings set' to update your configuration."
)
