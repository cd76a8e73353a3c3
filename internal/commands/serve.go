package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	apphttp "gastos/internal/http"
	applog "gastos/internal/log"
	"gastos/internal/scheduler"
)

func newServeCommand(open Opener) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sirve la API HTTP y sincroniza periódicamente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), open, func(app *App) error {
				if port == "" {
					port = app.Config.Port
				}
				return runServe(cmd.Context(), app, ":"+port)
			})
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (defaults to PORT)")

	return cmd
}

// runServe blocks until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, app *App, addr string) error {
	cfg := app.Config
	logger := app.Logger

	srv := apphttp.NewServer(addr, app.Ledger, apphttp.Options{
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		Burst:     cfg.RateLimitBurst,
		Registry:  app.Registry,
		Logger:    logger,
	})

	sched := scheduler.New(app.Ledger, cfg.SyncSchedule, app.Reports, cfg.SyncTimeout,
		logger.WithComponent(applog.ComponentScheduler).Logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if cfg.SyncRemote != "none" {
		sched.RunNow()
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		logger.Info("Starting gastos server",
			applog.FieldOperation, applog.OpStartup,
			"addr", addr,
			"store", cfg.StoreBackend,
			"remote", cfg.SyncRemote,
			"sync_schedule", cfg.SyncSchedule)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("Scheduled jobs still running at shutdown")
	}

	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
