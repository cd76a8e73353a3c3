package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/sheets/memory"
)

func validExpense(id string) core.Expense {
	return core.Expense{
		ID:          id,
		Amount:      500,
		Description: "Coto",
		Category:    "supermercado",
		Date:        time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestReplicationWorker_PushesExpense(t *testing.T) {
	remote := memory.New(nil)
	w := NewReplicationWorker(remote, core.DefaultCategoryTable())

	err := w.HandleExpenseCreated(context.Background(), amqp.NewExpenseCreatedMessage(validExpense("a")))
	require.NoError(t, err)

	got, err := remote.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	pushed, dropped := w.Stats()
	assert.Equal(t, int64(1), pushed)
	assert.Equal(t, int64(0), dropped)
}

func TestReplicationWorker_UnreachableRequeues(t *testing.T) {
	remote := memory.New(nil)
	remote.SetFailure(fmt.Errorf("push: %w", core.ErrSyncUnreachable))
	w := NewReplicationWorker(remote, core.DefaultCategoryTable())

	err := w.HandleExpenseCreated(context.Background(), amqp.NewExpenseCreatedMessage(validExpense("a")))
	assert.ErrorIs(t, err, core.ErrSyncUnreachable)
}

func TestReplicationWorker_DropsRejectedAndInvalid(t *testing.T) {
	remote := memory.New(nil)
	remote.SetFailure(fmt.Errorf("push: %w", core.ErrSyncRejected))
	w := NewReplicationWorker(remote, core.DefaultCategoryTable())

	require.NoError(t, w.HandleExpenseCreated(context.Background(), amqp.NewExpenseCreatedMessage(validExpense("a"))))

	invalid := validExpense("b")
	invalid.Amount = 0
	require.NoError(t, w.HandleExpenseCreated(context.Background(), amqp.NewExpenseCreatedMessage(invalid)))

	pushed, dropped := w.Stats()
	assert.Equal(t, int64(0), pushed)
	assert.Equal(t, int64(2), dropped)
}

func TestReplicationWorker_OtherErrorsRequeue(t *testing.T) {
	boom := errors.New("boom")
	remote := memory.New(nil)
	remote.SetFailure(boom)
	w := NewReplicationWorker(remote, core.DefaultCategoryTable())

	err := w.HandleExpenseCreated(context.Background(), amqp.NewExpenseCreatedMessage(validExpense("a")))
	assert.ErrorIs(t, err, boom)
}
