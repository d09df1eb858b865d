package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewSettingsCommand creates the settings command with all subcommands
func NewSettingsCommand(container *app.Container) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change provider, model, language and API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(cmd.OutOrStdout(), container, false)
		},
	}

	settingsCmd.AddCommand(
		newSettingsShowCommand(container),
		newSettingsSetCommand(container),
		newSettingsPathCommand(container),
	)

	return settingsCmd
}

func newSettingsShowCommand(container *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show saved settings with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(cmd.OutOrStdout(), container, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print settings as JSON")
	return cmd
}

type settingsFlags struct {
	provider  string
	apiKey    string
	model     string
	language  string
	ollamaURL string
}

func (f settingsFlags) empty() bool {
	return f == settingsFlags{}
}

func (f settingsFlags) apply(s domain.Settings) domain.Settings {
	if f.provider != "" {
		s.Provider = domain.ProviderKind(strings.ToLower(strings.TrimSpace(f.provider)))
	}
	if f.apiKey != "" {
		s.APIKey = strings.TrimSpace(f.apiKey)
	}
	if f.model != "" {
		s.Model = strings.TrimSpace(f.model)
	}
	if f.language != "" {
		s.OutputLanguage = strings.TrimSpace(f.language)
	}
	if f.ollamaURL != "" {
		s.OllamaURL = domain.NormalizeOllamaURL(f.ollamaURL)
	}
	return s
}

func newSettingsSetCommand(container *app.Container) *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings from flags, or interactively when no flag is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.SettingsStore == nil {
				return errors.New(ErrSettingsUnavailable)
			}
			current := container.SettingsStore.Load()

			var updated domain.Settings
			switch {
			case !flags.empty():
				updated = flags.apply(current)
			case helpers.IsTerminal(cmd.InOrStdin()):
				updated = promptSettings(cmd.OutOrStdout(), bufio.NewReader(cmd.InOrStdin()), current)
			default:
				return errors.New("no settings given: pass flags such as --provider or --model")
			}

			if err := updated.Validate(); err != nil {
				return err
			}
			container.SettingsStore.Save(updated)
			printSaved(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.provider, "provider", "p", "", "Provider (openrouter|ollama)")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "OpenRouter API key (sk-...)")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model identifier")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Output language")
	cmd.Flags().StringVar(&flags.ollamaURL, "ollama-url", "", "Ollama server URL")
	return cmd
}

func newSettingsPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings and history are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.SettingsStore == nil {
				return errors.New(ErrSettingsUnavailable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.SettingsStore.Path())
			return nil
		},
	}
}

func showSettings(out io.Writer, container *app.Container, asJSON bool) error {
	if container.SettingsStore == nil {
		return errors.New(ErrSettingsUnavailable)
	}
	settings := container.SettingsStore.Load().Redacted()
	if asJSON {
		return helpers.WriteJSON(out, settings)
	}

	fmt.Fprintf(out, "Provider:   %s\n", settings.ProviderKind().DisplayName())
	if settings.RequiresAPIKey() {
		key := settings.APIKey
		if key == "" {
			key = "(not set)"
		}
		fmt.Fprintf(out, "API key:    %s\n", key)
	} else {
		fmt.Fprintf(out, "Ollama URL: %s\n", settings.BaseOllamaURL())
	}
	model := settings.Model
	if model == "" {
		model = "(not set)"
	}
	fmt.Fprintf(out, "Model:      %s\n", model)
	fmt.Fprintf(out, "Language:   %s\n", settings.Language())
	return nil
}

// promptSettings walks through every field, keeping current values as defaults.
func promptSettings(out io.Writer, reader *bufio.Reader, current domain.Settings) domain.Settings {
	var options []string
	for _, p := range domain.SupportedProviders() {
		options = append(options, p.String())
	}

	updated := current
	choice := helpers.PromptForChoice(out, reader, "Provider", options, current.ProviderKind().String())
	updated.Provider = domain.ProviderKind(strings.ToLower(choice))

	if updated.RequiresAPIKey() {
		// The stored key is shown masked; Enter or the mask itself keeps it.
		masked := domain.MaskSecret(current.APIKey)
		answer := helpers.PromptForString(out, reader, "OpenRouter API key", masked)
		if answer == masked {
			answer = current.APIKey
		}
		updated.APIKey = answer
	} else {
		updated.OllamaURL = domain.NormalizeOllamaURL(helpers.PromptForString(out, reader, "Ollama URL", current.BaseOllamaURL()))
	}

	model := current.Model
	if updated.Provider != current.ProviderKind() {
		model = ""
	}
	updated.Model = helpers.PromptForString(out, reader, "Model", model)
	updated.OutputLanguage = helpers.PromptForString(out, reader, "Output language", current.Language())
	return updated
}
