package services

import (
	"context"

	"gastos/internal/core"
	"gastos/internal/sheets"
)

// Replicator forwards a newly added expense upstream. Implementations are
// the AMQP publisher (queued, pushed later by the worker) and PushReplicator.
type Replicator interface {
	Replicate(ctx context.Context, e core.Expense) error
}

// PushReplicator pushes straight to the remote sheet.
type PushReplicator struct {
	pusher sheets.Pusher
}

func NewPushReplicator(p sheets.Pusher) *PushReplicator {
	return &PushReplicator{pusher: p}
}

func (r *PushReplicator) Replicate(ctx context.Context, e core.Expense) error {
	return r.pusher.Push(ctx, e)
}
