package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gastos/internal/core"
)

func TestCurrency(t *testing.T) {
	assert.Contains(t, Currency(3500.5), "3.500,50")
	assert.Contains(t, Currency(3500.5), "$")
	assert.Contains(t, Currency(0.1+0.2), "0,30")
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "12 mar", DayLabel(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 ene", DayLabel(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "30 sept", DayLabel(time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)))
}

func TestDailyLabels(t *testing.T) {
	days := []core.DayTotal{
		{Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)},
	}
	labels, ambiguous := DailyLabels(days)
	assert.Equal(t, []string{"12 mar", "13 mar"}, labels)
	assert.Empty(t, ambiguous)

	days = append([]core.DayTotal{{Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)}}, days...)
	labels, ambiguous = DailyLabels(days)
	assert.Equal(t, "12 mar", labels[0])
	assert.Equal(t, []string{"12 mar"}, ambiguous)
}

func TestWindowLabel(t *testing.T) {
	assert.Equal(t, "Total Últimos 30 días", WindowLabel(core.WindowLast30))
	assert.Equal(t, "Total Este Mes", WindowLabel(core.WindowCurrentMonth))
	assert.Equal(t, "Total", WindowLabel(core.WindowAll))
}

func TestBatchMessage(t *testing.T) {
	assert.Equal(t, "Se agregaron 3 gastos correctamente", BatchMessage(3, 0))
	assert.Equal(t, "Se agregaron 2 gastos. 1 no se entendieron.", BatchMessage(2, 1))
	assert.Equal(t, `No pude entender los gastos. Intenta: "500 comida"`, BatchMessage(0, 2))
}
