// Package format renders amounts, dates and batch outcomes for display.
// Labels follow Argentine Spanish conventions.
package format

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// CurrencyCode is the ISO-4217 code amounts are displayed in.
const CurrencyCode = "ARS"

// Currency formats amount as pesos, e.g. "$3.500,50".
func Currency(amount float64) string {
	currency := money.GetCurrency(CurrencyCode)
	cents := decimal.NewFromFloat(amount).
		Mul(decimal.New(1, int32(currency.Fraction))).
		Round(0).
		IntPart()
	return money.New(cents, CurrencyCode).Display()
}

var monthAbbr = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// DayLabel renders day and abbreviated month, e.g. "12 mar".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), monthAbbr[t.Month()-1])
}

// DailyLabels returns one label per point of the daily series, plus the
// labels that are shared by points of different years. Callers should warn
// about those since the label alone cannot tell the points apart.
func DailyLabels(days []core.DayTotal) (labels []string, ambiguous []string) {
	labels = make([]string, len(days))
	years := make(map[string]int, len(days))
	flagged := make(map[string]bool)
	for i, d := range days {
		labels[i] = DayLabel(d.Date)
		if y, ok := years[labels[i]]; ok && y != d.Date.Year() && !flagged[labels[i]] {
			flagged[labels[i]] = true
			ambiguous = append(ambiguous, labels[i])
		}
		years[labels[i]] = d.Date.Year()
	}
	return labels, ambiguous
}

// WindowLabel is the heading shown above a window's total.
func WindowLabel(w core.TimeWindow) string {
	switch w {
	case core.WindowLast30:
		return "Total Últimos 30 días"
	case core.WindowCurrentMonth:
		return "Total Este Mes"
	default:
		return "Total"
	}
}

// BatchMessage summarizes a multi-line add for the user.
func BatchMessage(added, failed int) string {
	switch {
	case added == 0:
		return `No pude entender los gastos. Intenta: "500 comida"`
	case failed == 0:
		return fmt.Sprintf("Se agregaron %d gastos correctamente", added)
	default:
		return fmt.Sprintf("Se agregaron %d gastos. %d no se entendieron.", added, failed)
	}
}
