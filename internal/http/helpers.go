package http

import (
	"strings"
	"time"

	"gastos/internal/core"
	"gastos/internal/format"
)

// sanitizeInput drops control characters other than tab and line breaks and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

type expenseView struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	CategoryIcon  string    `json:"category_icon"`
	Date          time.Time `json:"date"`
	DateLabel     string    `json:"date_label"`
}

func newExpenseView(e core.Expense, table *core.CategoryTable) expenseView {
	cat := table.Resolve(e.Category)
	return expenseView{
		ID:            e.ID,
		Amount:        e.Amount,
		AmountDisplay: format.Currency(e.Amount),
		Description:   e.Description,
		Category:      cat.Key,
		CategoryLabel: cat.Label,
		CategoryIcon:  cat.Icon,
		Date:          e.Date,
		DateLabel:     format.DayLabel(e.Date),
	}
}

func newExpenseViews(expenses []core.Expense, table *core.CategoryTable) []expenseView {
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, newExpenseView(e, table))
	}
	return views
}

type dayView struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type categoryView struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Icon         string  `json:"icon"`
	Color        string  `json:"color"`
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"total_display"`
}

type reportView struct {
	Window          core.TimeWindow `json:"window"`
	Label           string          `json:"label"`
	Count           int             `json:"count"`
	Total           float64         `json:"total"`
	TotalDisplay    string          `json:"total_display"`
	Daily           []dayView       `json:"daily"`
	Categories      []categoryView  `json:"categories"`
	AmbiguousLabels []string        `json:"ambiguous_labels"`
}

func newReportView(agg core.Aggregation) reportView {
	labels, ambiguous := format.DailyLabels(agg.Daily)
	view := reportView{
		Window:          agg.Window,
		Label:           format.WindowLabel(agg.Window),
		Count:           agg.Count,
		Total:           agg.Total,
		TotalDisplay:    format.Currency(agg.Total),
		Daily:           make([]dayView, 0, len(agg.Daily)),
		Categories:      make([]categoryView, 0, len(agg.Categories)),
		AmbiguousLabels: append([]string{}, ambiguous...),
	}
	for i, d := range agg.Daily {
		view.Daily = append(view.Daily, dayView{
			Date:  d.Date.Format(time.DateOnly),
			Label: labels[i],
			Total: d.Total,
		})
	}
	for _, c := range agg.Categories {
		view.Categories = append(view.Categories, categoryView{
			Key:          c.Key,
			Label:        c.Label,
			Icon:         c.Icon,
			Color:        c.Color,
			Total:        c.Total,
			TotalDisplay: format.Currency(c.Total),
		})
	}
	return view
}
