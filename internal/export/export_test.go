package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func TestWriteCSV(t *testing.T) {
	expenses := []core.Expense{
		{ID: "a", Amount: 3500.5, Description: "Coto, carne", Category: "supermercado", Date: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)},
		{ID: "b", Amount: 200, Description: "Uber", Category: "desconocida", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, expenses, core.DefaultCategoryTable()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,fecha,descripcion,monto,categoria", lines[0])
	assert.Equal(t, `a,2025-03-12,"Coto, carne",3500.5,Supermercado`, lines[1])
	assert.Equal(t, "b,2025-03-10,Uber,200,Otros", lines[2])

	var back []*Row
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, "Coto, carne", back[0].Description)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []core.Expense{}, core.DefaultCategoryTable()))
	assert.NotContains(t, buf.String(), "2025")
}
