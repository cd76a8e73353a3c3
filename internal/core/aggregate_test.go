package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseOn(id string, amount float64, category string, date time.Time) Expense {
	return Expense{ID: id, Amount: amount, Description: "x", Category: category, Date: date}
}

func TestAggregate_Total(t *testing.T) {
	table := DefaultCategoryTable()
	coll := []Expense{
		expenseOn("1", 100, "comida", refNow),
		expenseOn("2", 250.5, "transporte", refNow.AddDate(0, 0, -1)),
		expenseOn("3", 50, "comida", refNow.AddDate(0, 0, -3)),
	}

	agg := Aggregate(coll, WindowAll, refNow, table)
	assert.Equal(t, 400.5, agg.Total)
	assert.Equal(t, 3, agg.Count)

	var daily float64
	for _, d := range agg.Daily {
		daily += d.Total
	}
	assert.InDelta(t, agg.Total, daily, 1e-9)
}

func TestAggregate_Windows(t *testing.T) {
	table := DefaultCategoryTable()
	coll := []Expense{
		expenseOn("in-month", 10, "comida", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		expenseOn("edge30", 20, "comida", time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC)),
		expenseOn("before30", 40, "comida", time.Date(2025, 2, 12, 23, 59, 0, 0, time.UTC)),
		expenseOn("old", 80, "comida", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, 30.0, Aggregate(coll, WindowLast30, refNow, table).Total)
	assert.Equal(t, 10.0, Aggregate(coll, WindowCurrentMonth, refNow, table).Total)
	assert.Equal(t, 150.0, Aggregate(coll, WindowAll, refNow, table).Total)
}

func TestAggregate_DailySeries(t *testing.T) {
	table := DefaultCategoryTable()
	coll := []Expense{
		expenseOn("a", 5, "comida", time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)),
		expenseOn("b", 7, "comida", time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)),
		expenseOn("c", 3, "comida", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)),
		expenseOn("d", 1, "comida", time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)),
	}

	agg := Aggregate(coll, WindowAll, refNow, table)
	require.Len(t, agg.Daily, 3)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), agg.Daily[0].Date)
	assert.Equal(t, 7.0, agg.Daily[0].Total)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), agg.Daily[1].Date)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), agg.Daily[2].Date)
	assert.Equal(t, 8.0, agg.Daily[2].Total)
}

func TestAggregate_Categories(t *testing.T) {
	table := DefaultCategoryTable()
	coll := []Expense{
		expenseOn("1", 10, "farmacia", refNow),
		expenseOn("2", 20, "supermercado", refNow),
		expenseOn("3", 5, "borrada", refNow),
		expenseOn("4", 1, "farmacia", refNow),
	}

	agg := Aggregate(coll, WindowAll, refNow, table)
	require.Len(t, agg.Categories, 3)
	assert.Equal(t, "supermercado", agg.Categories[0].Key)
	assert.Equal(t, "farmacia", agg.Categories[1].Key)
	assert.Equal(t, 11.0, agg.Categories[1].Total)
	assert.Equal(t, FallbackCategory, agg.Categories[2].Key)
	assert.Equal(t, 5.0, agg.Categories[2].Total)
	assert.Equal(t, "Otros", agg.Categories[2].Label)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, WindowLast30, refNow, DefaultCategoryTable())
	assert.Zero(t, agg.Total)
	assert.Empty(t, agg.Daily)
	assert.Empty(t, agg.Categories)
}

func TestParseTimeWindow(t *testing.T) {
	tests := map[string]TimeWindow{
		"":             WindowLast30,
		"last30":       WindowLast30,
		"currentMonth": WindowCurrentMonth,
		"month":        WindowCurrentMonth,
		"all":          WindowAll,
	}
	for in, want := range tests {
		got, err := ParseTimeWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTimeWindow("yesterday")
	assert.Error(t, err)
}
