package sheets

import (
	"context"

	"gastos/internal/core"
)

// Ports for the remote copy of the expense list.
type (
	// Pusher appends one expense to the remote copy. Failures are reported
	// as core.ErrSyncUnreachable or core.ErrSyncRejected.
	Pusher interface {
		Push(ctx context.Context, e core.Expense) error
	}

	// Puller fetches the whole remote collection. A payload that is not an
	// array of expenses fails with core.ErrSyncRejected.
	Puller interface {
		Pull(ctx context.Context) ([]core.Expense, error)
	}

	Remote interface {
		Pusher
		Puller
	}
)
