package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewTestConnectionCommand creates the test-connection command
func NewTestConnectionCommand(container *app.Container) *cobra.Command {
	var (
		url    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "test-connection",
		Short: "Check that an Ollama server is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = container.SettingsStore.Load().BaseOllamaURL()
			}
			url = domain.NormalizeOllamaURL(url)

			var err error
			helpers.WithSpinner(cmd.ErrOrStderr(), "Connecting to "+url+"...", func() {
				err = container.Dispatcher.TestConnection(cmd.Context(), url)
			})

			out := cmd.OutOrStdout()
			if asJSON {
				result := bridge.SimpleResult{Success: err == nil}
				if err != nil {
					result.Error = err.Error()
				}
				if writeErr := helpers.WriteJSON(out, result); writeErr != nil {
					return writeErr
				}
				return err
			}
			if err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			helpers.NewPrinter(out).Success(MsgConnectionOK, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Ollama server URL (defaults to the saved one)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the boundary result as JSON")
	return cmd
}
