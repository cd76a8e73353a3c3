package backend

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/amqp"
	applog "gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/sheets"
	"gastos/internal/sheets/appscript"
	gsheet "gastos/internal/sheets/google"
	"gastos/internal/sheets/memory"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend opens the local store, the remote and the replicator. On
// error everything opened so far is closed again.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (res *BackendResult, err error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var closers []func() error
	defer func() {
		if err != nil {
			_ = closeAll(closers)
		}
	}()

	store, closeStore, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	remote, err := f.CreateRemote(ctx, config)
	if err != nil {
		return nil, err
	}

	replicator, closeReplicator := f.createReplicator(config, remote)
	if closeReplicator != nil {
		closers = append(closers, closeReplicator)
	}

	return &BackendResult{
		Store:      store,
		Remote:     remote,
		Replicator: replicator,
		Cleanup:    func() error { return closeAll(closers) },
	}, nil
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (services.Store, func() error, error) {
	logger := f.logger.WithComponent(applog.ComponentStorage)
	switch config.Store {
	case SQLiteStore:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		n, err := repo.Count(ctx)
		if err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("failed to read SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath, applog.FieldRecords, n)
		return repo, repo.Close, nil
	case MemoryStore:
		logger.Info("Initialized memory store")
		return storage.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store type: %s", config.Store)
	}
}

// CreateRemote opens the configured remote sheet. The replication worker
// uses it on its own; it needs no local store.
func (f *DefaultFactory) CreateRemote(ctx context.Context, config Config) (sheets.Remote, error) {
	if !config.Remote.IsValid() {
		return nil, fmt.Errorf("invalid remote type: %s", config.Remote)
	}
	logger := f.logger.WithComponent(applog.ComponentSheets)
	switch config.Remote {
	case NoRemote:
		logger.Info("Remote sync disabled")
		return nil, nil
	case AppScriptRemote:
		cli, err := appscript.New(config.ScriptURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Apps Script client: %w", err)
		}
		logger.Info("Initialized Apps Script remote")
		return cli, nil
	case SheetsRemote:
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GoogleSheetName,
			CredentialsJSON: config.GoogleCredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		logger.Info("Initialized Google Sheets remote", "spreadsheet_id", config.GoogleSpreadsheetID)
		return cli, nil
	case MemoryRemote:
		store, err := memory.NewFromFile(config.MemoryRemoteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory remote: %w", err)
		}
		logger.Info("Initialized memory remote", "seed_file", config.MemoryRemoteFile, applog.FieldRecords, store.Len())
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported remote type: %s", config.Remote)
	}
}

// createReplicator prefers the AMQP queue and falls back to pushing
// directly when the broker cannot be reached.
func (f *DefaultFactory) createReplicator(config Config, remote sheets.Remote) (services.Replicator, func() error) {
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err == nil {
			f.logger.WithComponent(applog.ComponentAMQP).Info("Initialized AMQP replication",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			return client, client.Close
		}
		f.logger.Warn("Failed to initialize AMQP client, replicating directly", "error", err)
	}
	if remote == nil {
		return nil, nil
	}
	return services.NewPushReplicator(remote), nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
