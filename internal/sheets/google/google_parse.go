package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gastos/internal/core"
)

func toRow(e core.Expense) []any {
	return []any{e.ID, e.Date.UTC().Format(time.RFC3339), e.Description, e.Amount, e.Category}
}

// parseRow converts one sheet row back into an expense. Amounts may come
// back as plain numbers or as locale-formatted text.
func parseRow(cols []string) (core.Expense, error) {
	if len(cols) < numCols-1 {
		return core.Expense{}, fmt.Errorf("short row: %d columns", len(cols))
	}
	date, err := parseDateCell(safeGet(cols, colDate))
	if err != nil {
		return core.Expense{}, err
	}
	amount, ok := parseAmountCell(safeGet(cols, colAmount))
	if !ok {
		return core.Expense{}, fmt.Errorf("invalid amount %q", safeGet(cols, colAmount))
	}
	return core.Expense{
		ID:          safeGet(cols, colID),
		Amount:      amount,
		Description: safeGet(cols, colDescription),
		Category:    strings.ToLower(safeGet(cols, colCategory)),
		Date:        date,
	}, nil
}

func parseDateCell(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseAmountCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, f > 0
	}
	m, err := core.ParseAmount(s)
	if err != nil {
		return 0, false
	}
	return m.Value, true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
