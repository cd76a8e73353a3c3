package backend

import (
	"errors"
	"fmt"

	"gastos/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	cfg := Config{
		Store:        StoreType(appConfig.StoreBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,

		Remote:              RemoteType(appConfig.SyncRemote),
		ScriptURL:           appConfig.ScriptURL,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,
		MemoryRemoteFile:    appConfig.MemoryRemoteFile,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}

	if cfg.Remote == SheetsRemote {
		creds, err := appConfig.ServiceAccountJSON()
		if err != nil {
			return Config{}, fmt.Errorf("sheets credentials: %w", err)
		}
		cfg.GoogleCredentialsJSON = creds
	}

	return cfg, cfg.Validate()
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Store.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Store)
	}
	if !c.Remote.IsValid() {
		return fmt.Errorf("invalid remote type: %s", c.Remote)
	}

	if c.Store == SQLiteStore && c.SQLiteDBPath == "" {
		return errors.New("SQLite database path is required for sqlite store")
	}

	switch c.Remote {
	case AppScriptRemote:
		if c.ScriptURL == "" {
			return errors.New("script URL is required for appscript remote")
		}
	case SheetsRemote:
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets remote")
		}
		if len(c.GoogleCredentialsJSON) == 0 {
			return errors.New("Google service account credentials are required for sheets remote")
		}
	}

	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("AMQP exchange and queue are required when AMQP URL is set")
	}

	return nil
}
