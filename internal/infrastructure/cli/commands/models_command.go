package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Browse the models offered by the active provider",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsUseCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	var (
		provider string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models (OpenRouter free tier, or installed Ollama models)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := container.SettingsStore.Load()
			if provider != "" {
				settings.Provider = domain.ProviderKind(strings.ToLower(provider))
			}
			return listModels(cmd, container, settings, asJSON)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "List models for this provider instead of the saved one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the boundary result as JSON")
	return cmd
}

// newModelsUseCommand creates the 'models use' subcommand
func newModelsUseCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "use <id>",
		Short: "Select the model used for enhancements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return useModel(cmd, container, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Save the model without checking the provider listing")
	return cmd
}

func listModels(cmd *cobra.Command, container *app.Container, settings domain.Settings, asJSON bool) error {
	var (
		models []domain.ModelDescriptor
		err    error
	)
	helpers.WithSpinner(cmd.ErrOrStderr(), "Fetching "+settings.ProviderKind().DisplayName()+" models...", func() {
		models, err = container.Dispatcher.ListModels(cmd.Context(), settings)
	})

	out := cmd.OutOrStdout()
	if asJSON {
		result := bridge.ModelsResult{Success: err == nil, Models: models}
		if err != nil {
			result.Error = err.Error()
		}
		if writeErr := helpers.WriteJSON(out, result); writeErr != nil {
			return writeErr
		}
		return err
	}
	if err != nil {
		return err
	}

	if len(models) == 0 {
		fmt.Fprintln(out, "No models available.")
		return nil
	}
	for _, m := range models {
		fmt.Fprintln(out, formatModelLine(m, m.ID == settings.Model))
	}
	return nil
}

func formatModelLine(m domain.ModelDescriptor, selected bool) string {
	marker := " "
	if selected {
		marker = "*"
	}
	line := fmt.Sprintf("%s %s", marker, m.ID)
	if m.Name != "" && m.Name != m.ID {
		line += "  " + m.Name
	}
	switch {
	case m.ContextLength > 0:
		line += fmt.Sprintf("  (%d ctx)", m.ContextLength)
	case m.Size > 0:
		line += "  (" + helpers.FormatSize(m.Size) + ")"
	}
	return line
}

func useModel(cmd *cobra.Command, container *app.Container, id string, force bool) error {
	settings := container.SettingsStore.Load()
	id = strings.TrimSpace(id)

	if !force {
		var (
			models []domain.ModelDescriptor
			err    error
		)
		helpers.WithSpinner(cmd.ErrOrStderr(), "Checking model...", func() {
			models, err = container.Dispatcher.ListModels(cmd.Context(), settings)
		})
		if err != nil {
			return fmt.Errorf("could not verify model (use --force to skip): %w", err)
		}
		if _, found := domain.FindModel(models, id); !found {
			return fmt.Errorf("model %q is not offered by %s (use --force to save anyway)", id, settings.ProviderKind().DisplayName())
		}
	}

	settings.Model = id
	container.SettingsStore.Save(settings)
	printSaved(cmd.OutOrStdout(), settings)
	return nil
}

func printSaved(out io.Writer, settings domain.Settings) {
	helpers.NewPrinter(out).Success("%s (%s, %s)", MsgSettingsSaved, settings.ProviderKind().DisplayName(), settings.Model)
}
