package commands

import (
	"errors"
	"net"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewServeCommand creates the serve command
func NewServeCommand(container *app.Container) *cobra.Command {
	var (
		listen      string
		allowRemote bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON bridge for editor and browser front ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = container.Config.GetListenAddress()
			}
			if !allowRemote && !bridge.IsLoopback(listen) {
				return errors.New(ErrRemoteListen)
			}

			server := bridge.NewServer(container.Bridge, container.SettingsStore, container.HistoryStore, container.Logger)
			printer := helpers.NewPrinter(cmd.ErrOrStderr())
			return server.ListenAndServe(cmd.Context(), listen, func(addr net.Addr) {
				printer.Success("Listening on http://%s", addr.String())
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (defaults to server.listen)")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote", false, "Allow listening on non-loopback addresses")
	return cmd
}
