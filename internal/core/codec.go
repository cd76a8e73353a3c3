package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// expenseJSON is the wire shape shared with the remote sheet and the API.
type expenseJSON struct {
	ID          flexibleID `json:"id"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        time.Time  `json:"date"`
}

// flexibleID accepts ids written as JSON strings or numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a string or a number: %w", err)
		}
		*id = flexibleID(n.String())
		return nil
	}
}

func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(expenseJSON{
		ID:          flexibleID(e.ID),
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
	})
}

func (e *Expense) UnmarshalJSON(b []byte) error {
	var w expenseJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Expense{
		ID:          string(w.ID),
		Amount:      w.Amount,
		Description: w.Description,
		Category:    w.Category,
		Date:        w.Date,
	}
	return nil
}

// EncodeCollection serializes a collection as a JSON array (never null).
func EncodeCollection(coll []Expense) ([]byte, error) {
	if coll == nil {
		coll = []Expense{}
	}
	return json.Marshal(coll)
}

// DecodeCollection parses an untrusted payload. Anything other than a JSON
// array of expenses is rejected with ErrSyncRejected.
func DecodeCollection(payload []byte) ([]Expense, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: payload is not an array", ErrSyncRejected)
	}
	var coll []Expense
	if err := json.Unmarshal(trimmed, &coll); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncRejected, err)
	}
	if coll == nil {
		coll = []Expense{}
	}
	return coll, nil
}
