package main

import (
	"fmt"
	"time"

	"github.com/jonathan/job-tracker/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser UI",
	Long:  `Start an HTTP server that renders the job list with a modal form for adding applications.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:       port,
		Store:      store,
		Order:      cfg.OrderValue(),
		ToastTTL:   time.Duration(cfg.ToastTTL),
		SessionTTL: time.Duration(cfg.SessionTTL),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving job tracker on http://localhost:%d (store: %s)\n", port, store.BaseURL())
	return srv.Start()
}
