package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/devstore"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	devstorePort    int
	devstorePrefix  string
	devstoreOrigins string
)

var devstoreCmd = &cobra.Command{
	Use:   "devstore",
	Short: "Run an in-memory job store",
	Long:  "Run an in-memory implementation of the job-storage API for local development. Records are lost on exit.",
	Args:  cobra.NoArgs,
	// The store needs no client configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runDevstore,
}

func init() {
	flags := devstoreCmd.Flags()
	flags.IntVar(&devstorePort, "port", config.DefaultStorePort, "Port to listen on")
	flags.StringVar(&devstorePrefix, "prefix", devstore.DefaultPrefix, "Collection address")
	flags.StringVar(&devstoreOrigins, "origins", strings.Join(devstore.DefaultAllowedOrigins, ","), `Comma-separated CORS origins, "*" for any`)
	rootCmd.AddCommand(devstoreCmd)
}

func runDevstore(cmd *cobra.Command, _ []string) error {
	handler := devstore.Handler(devstore.NewStore(), devstore.HandlerOptions{
		Prefix:         devstorePrefix,
		AllowedOrigins: splitList(devstoreOrigins),
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", devstorePort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(cmd.OutOrStdout(), "Job store listening on http://localhost:%d%s\n", devstorePort, devstorePrefix)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("job store error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
