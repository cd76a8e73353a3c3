package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_DefaultTable(t *testing.T) {
	c := NewClassifier(DefaultCategoryTable())
	tests := map[string]string{
		"Coto":              "supermercado",
		"Uber al centro":    "transporte",
		"Pizza":             "comida",
		"Café con leche":    "comida",
		"Farmacity":         "farmacia",
		"Mercado":           "mercadopago",
		"Mc":                "comida",
		"Medialunas":        "supermercado", // "dia" is a substring
		"Pizza en el super": "supermercado", // earlier category wins
		"Regalo":            FallbackCategory,
		FallbackDescription: FallbackCategory,
	}
	for desc, want := range tests {
		t.Run(desc, func(t *testing.T) {
			assert.Equal(t, want, c.Classify(desc))
		})
	}
}

func TestClassifier_SharedKeywordBelongsToFirst(t *testing.T) {
	table, err := NewCategoryTable([]Category{
		{Key: "a", Keywords: []string{"pan"}},
		{Key: "b", Keywords: []string{"PAN", "leche"}},
		{Key: "other"},
	})
	require.NoError(t, err)
	c := NewClassifier(table)

	assert.Equal(t, "a", c.Classify("pan lactal"))
	assert.Equal(t, "b", c.Classify("leche"))
	assert.Equal(t, "other", c.Classify("yerba"))
}

func TestClassifier_OnlyFallback(t *testing.T) {
	table, err := NewCategoryTable([]Category{{Key: "misc"}})
	require.NoError(t, err)
	assert.Equal(t, "misc", NewClassifier(table).Classify("anything"))
}

func TestNewCategoryTable_Errors(t *testing.T) {
	_, err := NewCategoryTable([]Category{{Key: "a", Keywords: []string{"x"}}})
	assert.Error(t, err, "missing fallback")

	_, err = NewCategoryTable([]Category{{Key: "a"}, {Key: "b"}})
	assert.Error(t, err, "two fallbacks")

	_, err = NewCategoryTable([]Category{{Key: "a", Keywords: []string{"x"}}, {Key: "a"}})
	assert.Error(t, err, "duplicate key")
}

func TestCategoryTable_Resolve(t *testing.T) {
	table := DefaultCategoryTable()
	assert.Equal(t, "comida", table.Resolve("comida").Key)
	assert.Equal(t, FallbackCategory, table.Resolve("desconocida").Key)
	assert.Equal(t, "Otros", table.Fallback().Label)
	assert.Len(t, table.Categories(), 6)
}
