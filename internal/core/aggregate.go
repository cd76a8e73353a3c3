package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeWindow selects which expenses a report covers.
type TimeWindow string

const (
	WindowLast30       TimeWindow = "last30"
	WindowCurrentMonth TimeWindow = "currentMonth"
	WindowAll          TimeWindow = "all"
)

// ParseTimeWindow accepts the window names plus "month" as an alias of
// currentMonth. Empty input selects last30.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.TrimSpace(s) {
	case "", string(WindowLast30):
		return WindowLast30, nil
	case string(WindowCurrentMonth), "month":
		return WindowCurrentMonth, nil
	case string(WindowAll):
		return WindowAll, nil
	default:
		return "", fmt.Errorf("invalid time window %q: must be one of last30, currentMonth, all", s)
	}
}

// Since returns the inclusive lower bound of the window, or false when the
// window is unbounded.
func (w TimeWindow) Since(now time.Time) (time.Time, bool) {
	switch w {
	case WindowLast30:
		d := now.AddDate(0, 0, -30)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()), true
	case WindowCurrentMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

type (
	// DayTotal is the summed amount of one calendar day.
	DayTotal struct {
		Date  time.Time // midnight of the day
		Total float64
	}

	// CategoryTotal is the summed amount of one category.
	CategoryTotal struct {
		Key   string
		Label string
		Icon  string
		Color string
		Total float64
	}

	// Aggregation is the reporting view of a collection under a window.
	Aggregation struct {
		Window     TimeWindow
		Count      int
		Total      float64
		Daily      []DayTotal
		Categories []CategoryTotal
	}
)

// Filter returns the expenses that fall inside window, in input order.
func Filter(expenses []Expense, window TimeWindow, now time.Time) []Expense {
	since, bounded := window.Since(now)
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if bounded && e.Date.Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Aggregate filters expenses by window and computes the total, the daily
// series in chronological order and the per-category totals in table order.
// Categories without expenses are omitted. Unknown category keys count
// toward the fallback category.
func Aggregate(expenses []Expense, window TimeWindow, now time.Time, table *CategoryTable) Aggregation {
	filtered := Filter(expenses, window, now)
	agg := Aggregation{Window: window, Count: len(filtered)}

	sorted := append([]Expense(nil), filtered...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	total := decimal.Zero
	var (
		days     []time.Time
		dayTotal = map[time.Time]decimal.Decimal{}
		catTotal = map[string]decimal.Decimal{}
	)
	for _, e := range sorted {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)

		d := e.Date.In(now.Location())
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if _, ok := dayTotal[day]; !ok {
			days = append(days, day)
		}
		dayTotal[day] = dayTotal[day].Add(amount)

		key := table.Resolve(e.Category).Key
		catTotal[key] = catTotal[key].Add(amount)
	}

	agg.Total = total.InexactFloat64()
	for _, day := range days {
		agg.Daily = append(agg.Daily, DayTotal{Date: day, Total: dayTotal[day].InexactFloat64()})
	}
	for _, c := range table.categories {
		sum, ok := catTotal[c.Key]
		if !ok {
			continue
		}
		agg.Categories = append(agg.Categories, CategoryTotal{
			Key:   c.Key,
			Label: c.Label,
			Icon:  c.Icon,
			Color: c.Color,
			Total: sum.InexactFloat64(),
		})
	}
	return agg
}
