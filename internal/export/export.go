// Package export writes the expense collection as CSV.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"gastos/internal/core"
)

// Row is one CSV line.
type Row struct {
	ID          string `csv:"id"`
	Date        string `csv:"fecha"`
	Description string `csv:"descripcion"`
	Amount      string `csv:"monto"`
	Category    string `csv:"categoria"`
}

// Rows converts expenses to CSV rows, keeping their order. Dates are written
// as YYYY-MM-DD and unknown categories as the fallback label.
func Rows(expenses []core.Expense, table *core.CategoryTable) []*Row {
	rows := make([]*Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &Row{
			ID:          e.ID,
			Date:        e.Date.Format(time.DateOnly),
			Description: e.Description,
			Amount:      strconv.FormatFloat(e.Amount, 'f', -1, 64),
			Category:    table.Resolve(e.Category).Label,
		})
	}
	return rows
}

// WriteCSV writes expenses with a header row.
func WriteCSV(w io.Writer, expenses []core.Expense, table *core.CategoryTable) error {
	rows := Rows(expenses, table)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
