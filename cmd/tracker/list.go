package main

import (
	"encoding/json"

	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List job applications",
	Long:  "Fetch every job application from the store and print them in display order.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the records as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	list := tracker.NewList(store, tracker.ListOptions{
		Notifier: tracker.NewWriterNotifier(cmd.ErrOrStderr()),
		Order:    cfg.OrderValue(),
	})
	if err := list.Load(cmd.Context()); err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list.Jobs())
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintList(list.View())
	return nil
}
