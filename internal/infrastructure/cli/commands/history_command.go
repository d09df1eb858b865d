package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/prompt-enhancer/internal/app"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past enhancements",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryShowCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent enhancements, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

// newHistoryShowCommand creates the 'history show' subcommand
func newHistoryShowCommand(container *app.Container) *cobra.Command {
	var (
		copyOutput bool
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the input and enhanced prompt of one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryEntry(cmd, container, args[0], copyOutput, raw)
		},
	}

	cmd.Flags().BoolVarP(&copyOutput, "copy", "c", false, "Copy the enhanced prompt to the clipboard")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print without markdown rendering")
	return cmd
}

// newHistoryDeleteCommand creates the 'history delete' subcommand
func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			id, err := helpers.ParseHistoryID(args[0])
			if err != nil {
				return err
			}
			container.HistoryStore.Remove(id)
			return nil
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.OutOrStdout(), container, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int, asJSON bool) error {
	store := container.HistoryStore
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records := helpers.LimitRecords(store.List(), limit)
	if asJSON {
		return helpers.WriteJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	for _, rec := range records {
		fmt.Fprintln(out, helpers.FormatHistoryLine(rec))
	}
	return nil
}

// showHistoryEntry prints one record
func showHistoryEntry(cmd *cobra.Command, container *app.Container, rawID string, copyOutput, raw bool) error {
	if container.HistoryStore == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}
	id, err := helpers.ParseHistoryID(rawID)
	if err != nil {
		return err
	}
	record, ok := container.HistoryStore.Get(id)
	if !ok {
		return fmt.Errorf("history record %d not found", id)
	}

	out := cmd.OutOrStdout()
	printer := helpers.NewPrinter(out)
	printer.Muted("%s", record.Date.Local().Format(domain.TimestampFormat))
	fmt.Fprintln(out, "Input:")
	fmt.Fprintln(out, record.Input)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Enhanced:")
	printer.Markdown(record.Output, raw)

	if copyOutput {
		copyToClipboard(container, helpers.NewPrinter(cmd.ErrOrStderr()), record.Output)
	}
	return nil
}

// clearHistory drops every record after confirmation
func clearHistory(out io.Writer, container *app.Container, yes bool) error {
	if container.HistoryStore == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	if !yes {
		if container.Prompter == nil || !container.Prompter.Enabled() {
			return errors.New(ErrClearNeedsConfirmation)
		}
		confirmed, err := container.Prompter.Confirm(fmt.Sprintf("Delete all %d history records?", len(container.HistoryStore.List())))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	container.HistoryStore.Clear()
	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}
