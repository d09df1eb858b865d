package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage and provider reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, container)
		},
	}
}

func runDoctorDiagnostics(cmd *cobra.Command, container *app.Container) error {
	if container.DoctorService == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := container.DoctorService.Run(cmd.Context())

	// Display report even if there were errors
	helpers.NewPrinter(cmd.OutOrStdout()).Health(report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.HasErrors() {
		return errors.New("one or more checks failed")
	}
	return nil
}
