package google

import (
	"testing"
	"time"

	"gastos/internal/core"
)

func TestParseRow(t *testing.T) {
	e, err := parseRow([]string{"abc", "2025-03-12T00:00:00Z", "Coto", "3500.5", "Supermercado"})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if e.ID != "abc" || e.Amount != 3500.5 || e.Category != "supermercado" || e.Description != "Coto" {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if !e.Date.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", e.Date)
	}
}

func TestParseRow_MissingCategory(t *testing.T) {
	e, err := parseRow([]string{"abc", "2025-03-12", "Coto", "3.500,50"})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if e.Amount != 3500.5 || e.Category != "" {
		t.Fatalf("unexpected expense: %+v", e)
	}
}

func TestParseRow_Invalid(t *testing.T) {
	rows := [][]string{
		{"abc"},
		{"abc", "ayer", "Coto", "10", "otros"},
		{"abc", "2025-03-12", "Coto", "gratis", "otros"},
		{"abc", "2025-03-12", "Coto", "-5", "otros"},
	}
	for _, row := range rows {
		if _, err := parseRow(row); err == nil {
			t.Fatalf("expected error for %v", row)
		}
	}
}

func TestToRow(t *testing.T) {
	e := core.Expense{ID: "1", Amount: 12.5, Description: "Pan", Category: "supermercado",
		Date: time.Date(2025, 3, 12, 9, 0, 0, 0, time.FixedZone("ART", -3*3600))}
	row := toRow(e)
	if row[1] != "2025-03-12T12:00:00Z" {
		t.Fatalf("date cell = %v", row[1])
	}
	back, err := parseRow(toStrings(row))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.ID != e.ID || back.Amount != e.Amount || !back.Date.Equal(e.Date) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
