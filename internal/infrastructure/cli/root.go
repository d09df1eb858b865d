package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The container is built once flags
// are parsed; the returned cleanup closes the backing store and must be
// called once the command has run.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func(), error) {
	container := &app.Container{}
	verbose := opts.Verbose

	root := &cobra.Command{
		Use:   "enhancer [prompt...]",
		Short: "Prompt enhancer - rewrite rough requests into prompts for AI coding assistants",
		Long: "enhancer sends a rough request to OpenRouter or a local Ollama server and prints\n" +
			"a structured prompt ready for an AI coding assistant. Reads the prompt from\n" +
			"arguments or stdin.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := app.BuildContainer(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			*container = *built
			container.Prompter = NewPrompter(nil, nil)
			container.Clipboard = NewClipboard()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", opts.Verbose, "Enable debug logging (also PROMPT_ENHANCER_DEBUG=1)")
	commands.BindRootEnhance(root, container)

	root.AddCommand(
		commands.NewEnhanceCommand(container),
		commands.NewModelsCommand(container),
		commands.NewTestConnectionCommand(container),
		commands.NewSettingsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewServeCommand(container),
		commands.NewVersionCommand(),
	)

	cleanup := func() {
		if container.Store == nil {
			return
		}
		if err := container.Close(); err != nil {
			container.Logger.Warn("store close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return root, cleanup, nil
}
