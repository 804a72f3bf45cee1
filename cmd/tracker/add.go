package main

import (
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/spf13/cobra"
)

var addValues = tracker.DefaultFormValues()

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job application",
	Long:  "Create a job application. Company, role and location are required; links are comma-separated.",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	flags := addCmd.Flags()
	flags.StringVar(&addValues.CompanyName, "company", "", "Company name (required)")
	flags.StringVar(&addValues.Role, "role", "", "Role (required)")
	flags.StringVar(&addValues.Location, "location", "", "Location (required)")
	flags.StringVar(&addValues.JobType, "job-type", string(types.DefaultJobType), "FULL_TIME, PART_TIME, CONTRACT or INTERNSHIP")
	flags.StringVar(&addValues.Status, "status", string(types.DefaultStatus), "APPLIED, INTERVIEW, OFFER or REJECTED")
	flags.StringVar(&addValues.ApplicationDate, "date", "", "Application date, YYYY-MM-DD")
	flags.StringVar(&addValues.Links, "links", "", "Comma-separated links, e.g. acme.com,jobs.acme.com/42")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	form := tracker.NewForm(store, tracker.FormOptions{
		Notifier: tracker.NewWriterNotifier(cmd.ErrOrStderr()),
	})
	form.Set(addValues)

	created, err := form.Submit(cmd.Context())
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCreated(created)
	return nil
}
