package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"gastos/internal/cache"
	"gastos/internal/core"
	"gastos/internal/format"
	applog "gastos/internal/log"
	"gastos/internal/sheets"
	"gastos/internal/storage"
)

// Store loads and saves the whole collection.
type Store interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, coll []core.Expense) error
}

// SyncRecorder is implemented by stores that keep a sync history.
type SyncRecorder interface {
	RecordSync(ctx context.Context, rec storage.SyncRecord) error
	LastSync(ctx context.Context) (storage.SyncRecord, bool, error)
}

type LedgerConfig struct {
	Parser      *core.Parser
	Store       Store
	Remote      sheets.Puller // nil disables sync down
	Replicator  Replicator    // nil disables replication
	Reports     cache.Cache[core.Aggregation]
	Metrics     *Metrics
	SyncTimeout time.Duration
	Now         func() time.Time
	NewID       func() string
}

// Ledger owns the expense collection. Every change is saved to the store
// before it becomes visible; a failed save leaves the collection as it was.
type Ledger struct {
	mu       sync.RWMutex
	coll     []core.Expense
	revision uint64

	parser      *core.Parser
	table       *core.CategoryTable
	store       Store
	remote      sheets.Puller
	replicator  Replicator
	reports     cache.Cache[core.Aggregation]
	metrics     *Metrics
	syncTimeout time.Duration
	now         func() time.Time
	newID       func() string
}

// NewLedger loads the stored collection.
func NewLedger(ctx context.Context, cfg LedgerConfig) (*Ledger, error) {
	if cfg.Parser == nil {
		return nil, errors.New("ledger: parser is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("ledger: store is required")
	}
	l := &Ledger{
		parser:      cfg.Parser,
		table:       cfg.Parser.Table(),
		store:       cfg.Store,
		remote:      cfg.Remote,
		replicator:  cfg.Replicator,
		reports:     cfg.Reports,
		metrics:     cfg.Metrics,
		syncTimeout: cfg.SyncTimeout,
		now:         cfg.Now,
		newID:       cfg.NewID,
	}
	if l.reports == nil {
		l.reports = cache.NewLRUCache[core.Aggregation](64, time.Minute)
	}
	if l.syncTimeout <= 0 {
		l.syncTimeout = 15 * time.Second
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}

	coll, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	l.coll = coll
	l.metrics.setExpenses(len(coll))
	return l, nil
}

// ReplicationError reports an added expense that could not be sent upstream.
// The expense stays in the local collection.
type ReplicationError struct {
	ExpenseID string
	Err       error
}

func (e *ReplicationError) Error() string {
	return fmt.Sprintf("replicate expense %s: %v", e.ExpenseID, e.Err)
}

func (e *ReplicationError) Unwrap() error {
	return e.Err
}

type AddResult struct {
	Batch             core.BatchResult
	ReplicationErrors []*ReplicationError
	Message           string
}

// AddLines parses text, one expense per line, and inserts the parsed
// records ahead of the existing ones. Lines that do not parse are reported
// in the result; they never fail the call.
func (l *Ledger) AddLines(ctx context.Context, text string) (AddResult, error) {
	batch, err := l.parser.ParseBatch(ctx, text, l.now())
	if err != nil {
		return AddResult{}, fmt.Errorf("parse batch: %w", err)
	}
	l.metrics.observeBatch(batch.AddedCount(), batch.FailedCount())

	res := AddResult{
		Batch:   batch,
		Message: format.BatchMessage(batch.AddedCount(), batch.FailedCount()),
	}
	for _, f := range batch.Failed {
		slog.DebugContext(ctx, "Line not understood", "line", f.Line, "text", f.Text, "error", f.Err)
	}
	if batch.AddedCount() == 0 {
		return res, nil
	}

	err = l.update(ctx, func(coll []core.Expense) ([]core.Expense, error) {
		return core.Prepend(coll, batch.Added), nil
	})
	if err != nil {
		return AddResult{}, err
	}

	res.ReplicationErrors = l.replicate(ctx, batch.Added)
	return res, nil
}

func (l *Ledger) replicate(ctx context.Context, added []core.Expense) []*ReplicationError {
	if l.replicator == nil {
		return nil
	}
	var errs []*ReplicationError
	for _, e := range added {
		rctx, cancel := context.WithTimeout(ctx, l.syncTimeout)
		err := l.replicator.Replicate(rctx, e)
		cancel()
		l.metrics.observeReplication(err)
		if err != nil {
			slog.WarnContext(ctx, "Failed to replicate expense",
				applog.FieldOperation, applog.OpReplicate,
				applog.FieldExpenseID, e.ID,
				applog.FieldError, err)
			errs = append(errs, &ReplicationError{ExpenseID: e.ID, Err: err})
		}
	}
	return errs
}

// Delete removes the expense with id, or fails with core.ErrNotFound.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.update(ctx, func(coll []core.Expense) ([]core.Expense, error) {
		out, found := core.RemoveByID(coll, id)
		if !found {
			return nil, fmt.Errorf("delete %q: %w", id, core.ErrNotFound)
		}
		return out, nil
	})
}

// Clear removes every expense.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.update(ctx, func([]core.Expense) ([]core.Expense, error) {
		return []core.Expense{}, nil
	})
}

// update applies fn to the collection and saves the result.
func (l *Ledger) update(ctx context.Context, fn func([]core.Expense) ([]core.Expense, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := fn(l.coll)
	if err != nil {
		return err
	}
	if err := l.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	l.coll = next
	l.revision++
	l.metrics.setExpenses(len(next))
	return nil
}

// List returns the collection newest first.
func (l *Ledger) List(_ context.Context) []core.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return core.SortByDateDesc(l.coll)
}

// Snapshot returns a copy of the collection in stored order.
func (l *Ledger) Snapshot() []core.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.Expense{}, l.coll...)
}

// Get returns the expense with id.
func (l *Ledger) Get(id string) (core.Expense, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := core.FindByID(l.coll, id)
	if !ok {
		return core.Expense{}, fmt.Errorf("get %q: %w", id, core.ErrNotFound)
	}
	return e, nil
}

// Table returns the category table used for classification and reports.
func (l *Ledger) Table() *core.CategoryTable {
	return l.table
}

// Report aggregates the collection for window. Results are cached per
// collection revision, window and calendar day.
func (l *Ledger) Report(ctx context.Context, window core.TimeWindow) core.Aggregation {
	now := l.now()

	l.mu.RLock()
	key := fmt.Sprintf("%d|%s|%s", l.revision, window, now.Format(time.DateOnly))
	if agg, ok := l.reports.Get(key); ok {
		l.mu.RUnlock()
		l.metrics.observeReportCache(true)
		return agg
	}
	agg := core.Aggregate(l.coll, window, now, l.table)
	l.mu.RUnlock()

	slog.DebugContext(ctx, "Report computed",
		applog.FieldOperation, applog.OpReport,
		applog.FieldWindow, window,
		applog.FieldRecords, agg.Count)

	l.metrics.observeReportCache(false)
	l.reports.Set(key, agg)
	return agg
}

type SyncStatus string

const (
	SyncReplaced    SyncStatus = "replaced"
	SyncDisabled    SyncStatus = "disabled"
	SyncRejected    SyncStatus = "rejected"
	SyncUnreachable SyncStatus = "unreachable"
	SyncFailed      SyncStatus = "failed"
)

// SyncOutcome is the user-facing result of a sync down. Only SyncReplaced
// changes the local collection.
type SyncOutcome struct {
	Status  SyncStatus
	Records int
	Message string
	Err     error
}

// SyncDown replaces the local collection with the remote one. A remote
// failure leaves the local collection untouched and is reported in the
// outcome, never as an error.
func (l *Ledger) SyncDown(ctx context.Context) SyncOutcome {
	out := l.syncDown(ctx)
	l.metrics.observeSync(out.Status)
	l.recordSync(ctx, out)
	return out
}

func (l *Ledger) syncDown(ctx context.Context) SyncOutcome {
	if l.remote == nil {
		return SyncOutcome{Status: SyncDisabled, Message: "Sincronización desactivada"}
	}

	pctx, cancel := context.WithTimeout(ctx, l.syncTimeout)
	remote, err := l.remote.Pull(pctx)
	cancel()
	if err != nil {
		status := SyncUnreachable
		if errors.Is(err, core.ErrSyncRejected) {
			status = SyncRejected
		}
		slog.WarnContext(ctx, "Sync down failed, keeping local collection",
			applog.FieldOperation, applog.OpSync,
			applog.FieldSyncStatus, status,
			applog.FieldError, err)
		return SyncOutcome{Status: status, Message: "Error al sincronizar con Google Sheets", Err: err}
	}

	clean := core.Sanitize(remote, l.table, l.newID)
	if dropped := len(remote) - len(clean); dropped > 0 {
		slog.WarnContext(ctx, "Dropped invalid remote records", "dropped", dropped)
	}
	err = l.update(ctx, func([]core.Expense) ([]core.Expense, error) {
		return clean, nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save synced collection", "error", err)
		return SyncOutcome{Status: SyncFailed, Message: "Error al guardar los gastos sincronizados", Err: err}
	}

	slog.InfoContext(ctx, "Synced down from remote",
		applog.FieldOperation, applog.OpSync,
		applog.FieldSyncStatus, SyncReplaced,
		applog.FieldRecords, len(clean))
	return SyncOutcome{Status: SyncReplaced, Records: len(clean), Message: "Sincronizado con Google Sheets"}
}

func (l *Ledger) recordSync(ctx context.Context, out SyncOutcome) {
	rec, ok := l.store.(SyncRecorder)
	if !ok || out.Status == SyncDisabled {
		return
	}
	detail := ""
	if out.Err != nil {
		detail = out.Err.Error()
	}
	err := rec.RecordSync(ctx, storage.SyncRecord{
		Direction: "down",
		Status:    string(out.Status),
		Records:   out.Records,
		Detail:    detail,
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to record sync", "error", err)
	}
}

// LastSync returns the latest recorded sync when the store keeps a history.
func (l *Ledger) LastSync(ctx context.Context) (storage.SyncRecord, bool, error) {
	rec, ok := l.store.(SyncRecorder)
	if !ok {
		return storage.SyncRecord{}, false, nil
	}
	return rec.LastSync(ctx)
}
