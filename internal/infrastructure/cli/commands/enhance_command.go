package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// enhanceOptions are the flags shared by `enhance` and the bare root command.
type enhanceOptions struct {
	provider  string
	model     string
	language  string
	ollamaURL string
	apiKey    string
	copy      bool
	raw       bool
	json      bool
	noHistory bool
}

func (o *enhanceOptions) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.provider, "provider", "p", "", "Provider for this call (openrouter|ollama)")
	flags.StringVarP(&o.model, "model", "m", "", "Model for this call")
	flags.StringVarP(&o.language, "language", "l", "", "Output language for this call")
	flags.StringVar(&o.ollamaURL, "ollama-url", "", "Ollama server URL for this call")
	flags.StringVar(&o.apiKey, "api-key", "", "OpenRouter API key for this call (not saved)")
	flags.BoolVarP(&o.copy, "copy", "c", false, "Copy the enhanced prompt to the clipboard")
	flags.BoolVar(&o.raw, "raw", false, "Print the enhanced prompt without markdown rendering")
	flags.BoolVar(&o.json, "json", false, "Print the boundary result as JSON")
	flags.BoolVar(&o.noHistory, "no-history", false, "Do not record this enhancement in history")
}

// settings overlays the transient flags on the saved settings.
func (o *enhanceOptions) settings(saved domain.Settings) domain.Settings {
	if o.provider != "" {
		saved.Provider = domain.ProviderKind(strings.ToLower(o.provider))
	}
	if o.model != "" {
		saved.Model = o.model
	}
	if o.language != "" {
		saved.OutputLanguage = o.language
	}
	if o.ollamaURL != "" {
		saved.OllamaURL = o.ollamaURL
	}
	if o.apiKey != "" {
		saved.APIKey = o.apiKey
	}
	return saved
}

// NewEnhanceCommand creates the enhance command
func NewEnhanceCommand(container *app.Container) *cobra.Command {
	opts := &enhanceOptions{}
	cmd := &cobra.Command{
		Use:   "enhance [prompt...]",
		Short: "Rewrite a prompt into an optimized prompt for AI coding assistants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnhance(cmd, container, opts, args)
		},
	}
	opts.bind(cmd.Flags())
	return cmd
}

// BindRootEnhance makes the root command behave like `enhance`.
func BindRootEnhance(root *cobra.Command, container *app.Container) {
	opts := &enhanceOptions{}
	opts.bind(root.Flags())
	root.Args = cobra.ArbitraryArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && helpers.IsTerminal(cmd.InOrStdin()) {
			return cmd.Help()
		}
		return runEnhance(cmd, container, opts, args)
	}
}

func runEnhance(cmd *cobra.Command, container *app.Container, opts *enhanceOptions, args []string) error {
	prompt, err := helpers.ReadPrompt(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if prompt == "" {
		return errors.New(ErrEmptyPrompt)
	}

	settings := opts.settings(container.SettingsStore.Load())
	out := cmd.OutOrStdout()
	printer := helpers.NewPrinter(out)
	errPrinter := helpers.NewPrinter(cmd.ErrOrStderr())

	var text string
	helpers.WithSpinner(cmd.ErrOrStderr(), "Enhancing with "+settings.ProviderKind().DisplayName()+"...", func() {
		text, err = container.Dispatcher.Enhance(cmd.Context(), settings, prompt)
	})

	if opts.json {
		result := bridge.EnhanceResult{Success: err == nil, EnhancedPrompt: text}
		if err != nil {
			result.Error = err.Error()
		}
		if writeErr := helpers.WriteJSON(out, result); writeErr != nil {
			return writeErr
		}
	}

	if err != nil {
		if domain.IsMisconfiguration(err) {
			errPrinter.Muted(MsgFixSettings)
		}
		return err
	}

	if !opts.noHistory && container.HistoryStore != nil {
		container.HistoryStore.Append(prompt, text)
	}

	if !opts.json {
		printer.Markdown(text, opts.raw)
	}

	if opts.copy {
		copyToClipboard(container, errPrinter, text)
	}
	return nil
}

func copyToClipboard(container *app.Container, printer *helpers.Printer, text string) {
	if container.Clipboard == nil || !container.Clipboard.Enabled() {
		printer.Warning("clipboard unavailable on this system")
		return
	}
	if err := container.Clipboard.Copy(text); err != nil {
		printer.Warning("clipboard copy failed: %v", err)
		return
	}
	printer.Success(MsgCopied)
}
