package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/sheets"
)

// ReplicationWorker pushes queued expenses to the remote sheet.
type ReplicationWorker struct {
	pusher sheets.Pusher
	table  *core.CategoryTable

	pushed  atomic.Int64
	dropped atomic.Int64
}

func NewReplicationWorker(pusher sheets.Pusher, table *core.CategoryTable) *ReplicationWorker {
	return &ReplicationWorker{pusher: pusher, table: table}
}

// HandleExpenseCreated processes one created-expense message. A returned
// error requeues the message, so only failures worth retrying are returned:
// invalid records and rejected pushes are logged and dropped.
func (w *ReplicationWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	e := msg.Expense
	slog.InfoContext(ctx, "Processing expense created message",
		"message_id", msg.MessageID,
		"expense_id", e.ID)

	if err := e.Validate(w.table); err != nil {
		w.dropped.Add(1)
		slog.WarnContext(ctx, "Dropping invalid expense", "expense_id", e.ID, "error", err)
		return nil
	}

	if err := w.pusher.Push(ctx, e); err != nil {
		if errors.Is(err, core.ErrSyncRejected) {
			w.dropped.Add(1)
			slog.ErrorContext(ctx, "Remote rejected expense, dropping message",
				"expense_id", e.ID,
				"error", err)
			return nil
		}
		return fmt.Errorf("push expense %s: %w", e.ID, err)
	}

	w.pushed.Add(1)
	slog.InfoContext(ctx, "Successfully replicated expense",
		"expense_id", e.ID,
		"amount", e.Amount,
		"category", e.Category)
	return nil
}

// Stats reports how many messages were pushed and dropped.
func (w *ReplicationWorker) Stats() (pushed, dropped int64) {
	return w.pushed.Load(), w.dropped.Load()
}
