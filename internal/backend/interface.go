package backend

import (
	"context"

	"gastos/internal/services"
	"gastos/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds everything the ledger needs from the environment.
// Remote and Replicator are nil when synchronization is disabled.
type BackendResult struct {
	Store      services.Store
	Remote     sheets.Remote
	Replicator services.Replicator
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateRemote opens only the configured remote; nil when disabled.
	CreateRemote(ctx context.Context, config Config) (sheets.Remote, error)
}

// Config holds configuration for backend creation
type Config struct {
	Store StoreType
	// SQLite specific
	SQLiteDBPath string

	Remote RemoteType
	// Apps Script specific
	ScriptURL string
	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsJSON []byte
	// Memory remote specific
	MemoryRemoteFile string

	// AMQP replication; empty URL pushes straight to the remote
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// StoreType selects the local store
type StoreType string

const (
	SQLiteStore StoreType = "sqlite"
	MemoryStore StoreType = "memory"
)

func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case SQLiteStore, MemoryStore:
		return true
	default:
		return false
	}
}

// RemoteType selects the remote sheet
type RemoteType string

const (
	NoRemote        RemoteType = "none"
	AppScriptRemote RemoteType = "appscript"
	SheetsRemote    RemoteType = "sheets"
	MemoryRemote    RemoteType = "memory"
)

func (rt RemoteType) String() string {
	return string(rt)
}

// IsValid returns true if the remote type is valid
func (rt RemoteType) IsValid() bool {
	switch rt {
	case NoRemote, AppScriptRemote, SheetsRemote, MemoryRemote:
		return true
	default:
		return false
	}
}
