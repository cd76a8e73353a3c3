package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type ExpenseRow struct {
	ID          string
	Position    int64
	Amount      float64
	Description string
	Category    string
	OccurredAt  string
}

const listExpenses = `-- name: ListExpenses :many
SELECT id, position, amount, description, category, occurred_at
FROM expenses
ORDER BY position ASC
`

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRow
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(&i.ID, &i.Position, &i.Amount, &i.Description, &i.Category, &i.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertExpense = `-- name: InsertExpense :exec
INSERT INTO expenses (id, position, amount, description, category, occurred_at)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertExpense(ctx context.Context, arg ExpenseRow) error {
	_, err := q.db.ExecContext(ctx, insertExpense,
		arg.ID, arg.Position, arg.Amount, arg.Description, arg.Category, arg.OccurredAt)
	return err
}

const deleteAllExpenses = `-- name: DeleteAllExpenses :exec
DELETE FROM expenses
`

func (q *Queries) DeleteAllExpenses(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllExpenses)
	return err
}

const countExpenses = `-- name: CountExpenses :one
SELECT COUNT(*) FROM expenses
`

func (q *Queries) CountExpenses(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countExpenses).Scan(&n)
	return n, err
}

type SyncLogParams struct {
	Direction string
	Status    string
	Records   int64
	Detail    string
}

const insertSyncLog = `-- name: InsertSyncLog :exec
INSERT INTO sync_log (direction, status, records, detail)
VALUES (?, ?, ?, ?)
`

func (q *Queries) InsertSyncLog(ctx context.Context, arg SyncLogParams) error {
	_, err := q.db.ExecContext(ctx, insertSyncLog, arg.Direction, arg.Status, arg.Records, arg.Detail)
	return err
}

type SyncLogRow struct {
	Direction  string
	Status     string
	Records    int64
	Detail     string
	RecordedAt string
}

const lastSyncLog = `-- name: LastSyncLog :one
SELECT direction, status, records, detail, recorded_at
FROM sync_log
ORDER BY id DESC
LIMIT 1
`

func (q *Queries) LastSyncLog(ctx context.Context) (SyncLogRow, error) {
	var i SyncLogRow
	err := q.db.QueryRowContext(ctx, lastSyncLog).Scan(&i.Direction, &i.Status, &i.Records, &i.Detail, &i.RecordedAt)
	return i, err
}
