package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a job application",
	Long:  "Delete a job application after confirmation. Use --yes to skip the prompt.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	list := tracker.NewList(store, tracker.ListOptions{
		Notifier: tracker.NewWriterNotifier(cmd.ErrOrStderr()),
		Order:    cfg.OrderValue(),
	})

	confirm := tracker.Confirmed
	if !deleteYes {
		confirm = promptConfirmer(cmd)
	}

	deleted, err := list.Delete(cmd.Context(), types.JobID(args[0]), confirm)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
	}
	return nil
}

// promptConfirmer asks on the command's output and reads y/yes from its input.
func promptConfirmer(cmd *cobra.Command) tracker.Confirmer {
	return tracker.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
		answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
