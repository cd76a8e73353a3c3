package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gastos/internal/backend"
	"gastos/internal/cache"
	"gastos/internal/cli"
	"gastos/internal/config"
	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/sheets"
)

// App is the wired ledger a command runs against.
type App struct {
	Config   *config.Config
	Logger   *applog.Logger
	Ledger   *services.Ledger
	Reports  *cache.LRUCache[core.Aggregation]
	Registry *prometheus.Registry

	cleanup backend.CleanupFunc
}

// Close releases the backend resources.
func (a *App) Close() error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

// Opener builds the App for one command invocation.
type Opener func(ctx context.Context) (*App, error)

// DefaultOpener loads the environment configuration and logs to logOut,
// keeping stdout free for command output.
func DefaultOpener(logOut io.Writer) Opener {
	return func(ctx context.Context) (*App, error) {
		cli.LoadEnvFile()
		cfg, err := cli.LoadConfig()
		if err != nil {
			return nil, err
		}
		logger := cli.SetupLogger(logOut, cfg, applog.ComponentCLI)
		return Open(ctx, cfg, logger)
	}
}

// Open creates the backend described by cfg and loads the ledger from it.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend configuration: %w", err)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reports := cache.NewLRUCache[core.Aggregation](cfg.ReportCacheSize, cfg.ReportCacheTTL)

	var remote sheets.Puller
	if res.Remote != nil {
		remote = res.Remote
	}
	ledger, err := services.NewLedger(ctx, services.LedgerConfig{
		Parser:      core.NewParser(core.DefaultCategoryTable()),
		Store:       res.Store,
		Remote:      remote,
		Replicator:  res.Replicator,
		Reports:     reports,
		Metrics:     services.NewMetrics(reg),
		SyncTimeout: cfg.SyncTimeout,
	})
	if err != nil {
		_ = res.Cleanup()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Ledger:   ledger,
		Reports:  reports,
		Registry: reg,
		cleanup:  res.Cleanup,
	}, nil
}

// withApp opens the App, runs fn and closes the App again.
func withApp(ctx context.Context, open Opener, fn func(*App) error) (err error) {
	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close backend: %w", cerr)
		}
	}()
	return fn(app)
}
