package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gastos/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the expense collection. The collection is saved
// as a whole; row position keeps the caller's order.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns the stored collection in saved order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(time.RFC3339Nano, row.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("expense %s: parse date %q: %w", row.ID, row.OccurredAt, err)
		}
		out = append(out, core.Expense{
			ID:          row.ID,
			Amount:      row.Amount,
			Description: row.Description,
			Category:    row.Category,
			Date:        date,
		})
	}
	return out, nil
}

// Save replaces the stored collection in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, coll []core.Expense) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
			}
		}
	}()

	q := r.queries.WithTx(tx)
	if err = q.DeleteAllExpenses(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	for i, e := range coll {
		err = q.InsertExpense(ctx, ExpenseRow{
			ID:          e.ID,
			Position:    int64(i),
			Amount:      e.Amount,
			Description: e.Description,
			Category:    e.Category,
			OccurredAt:  e.Date.Format(time.RFC3339Nano),
		})
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Collection saved to SQLite", "count", len(coll))
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return int(n), nil
}

// SyncRecord is one entry of the sync history.
type SyncRecord struct {
	Direction  string
	Status     string
	Records    int
	Detail     string
	RecordedAt time.Time
}

// RecordSync appends an entry to the sync history.
func (r *SQLiteRepository) RecordSync(ctx context.Context, rec SyncRecord) error {
	err := r.queries.InsertSyncLog(ctx, SyncLogParams{
		Direction: rec.Direction,
		Status:    rec.Status,
		Records:   int64(rec.Records),
		Detail:    rec.Detail,
	})
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// LastSync returns the most recent sync entry and false when there is none.
func (r *SQLiteRepository) LastSync(ctx context.Context) (SyncRecord, bool, error) {
	row, err := r.queries.LastSyncLog(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncRecord{}, false, nil
	}
	if err != nil {
		return SyncRecord{}, false, fmt.Errorf("last sync log: %w", err)
	}
	return SyncRecord{
		Direction:  row.Direction,
		Status:     row.Status,
		Records:    int(row.Records),
		Detail:     row.Detail,
		RecordedAt: parseTimestamp(row.RecordedAt),
	}, true, nil
}

// parseTimestamp reads a DATETIME column, which the driver may hand back
// either as RFC 3339 or in SQLite's own layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
