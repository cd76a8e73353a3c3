package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Expense is one parsed purchase. Records are immutable once created;
	// a correction is a delete followed by a new add.
	Expense struct {
		ID          string
		Amount      float64
		Description string
		Category    string
		Date        time.Time
	}

	// Span is a half-open byte range [Start, End) of a raw input line.
	Span struct {
		Start int
		End   int
	}
)

var (
	ErrNoAmount        = errors.New("no amount found")
	ErrInvalidNumeric  = errors.New("invalid numeric amount")
	ErrSyncRejected    = errors.New("sync payload rejected")
	ErrSyncUnreachable = errors.New("sync channel unreachable")
	ErrNotFound        = errors.New("expense not found")

	ErrEmptyID          = errors.New("empty id")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// ParseError reports why a single input line produced no expense.
type ParseError struct {
	Line int // 1-based position inside the batch
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Empty reports whether the span covers no input.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Validate checks the record invariants against the given category table.
func (e Expense) Validate(table *CategoryTable) error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if !(e.Amount > 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if table != nil && !table.Contains(e.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Category)
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}
