// Package main provides the job tracker command line: list, add and delete job
// applications, serve the browser UI, or run a local job store.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	baseURLFlag string
	orderFlag   string
	timeoutFlag time.Duration
	verboseFlag bool

	// cfg is resolved before every command runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:               "tracker",
	Short:             "Job application tracker",
	Long:              "Track job applications: list, add and delete records held by a job-storage API, or browse them in a web UI.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: resolveConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a JSON config file")
	flags.StringVar(&baseURLFlag, "base-url", "", "Collection address of the job-storage API (overrides "+config.EnvBaseURL+")")
	flags.StringVar(&orderFlag, "order", "", "Display order: reverse, created or server")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout, e.g. 10s")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests and store calls")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig layers flags over the config file, the environment and the defaults.
func resolveConfig(cmd *cobra.Command, _ []string) error {
	resolved, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		resolved.BaseURL = baseURLFlag
	}
	if flags.Changed("order") {
		resolved.Order = orderFlag
	}
	if flags.Changed("timeout") {
		resolved.Timeout = config.Duration(timeoutFlag)
	}
	if verboseFlag {
		resolved.Verbose = true
	}
	if err := resolved.Validate(); err != nil {
		return err
	}
	cfg = resolved

	if cfg.Verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}
	return nil
}

// newStore creates a client for the configured job store.
func newStore() (*jobstore.Client, error) {
	client, err := jobstore.NewClient(cfg.BaseURL, &jobstore.Options{Timeout: time.Duration(cfg.Timeout)})
	if err != nil {
		return nil, fmt.Errorf("failed to create job store client: %w", err)
	}
	return client, nil
}
