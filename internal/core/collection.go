package core

import (
	"sort"
	"strings"
)

// Prepend returns a new collection with added placed before coll, the last
// added record first, so the most recently entered line leads the list.
func Prepend(coll, added []Expense) []Expense {
	out := make([]Expense, 0, len(coll)+len(added))
	for i := len(added) - 1; i >= 0; i-- {
		out = append(out, added[i])
	}
	return append(out, coll...)
}

// RemoveByID returns a new collection without the record id and whether it
// was present.
func RemoveByID(coll []Expense, id string) ([]Expense, bool) {
	out := make([]Expense, 0, len(coll))
	found := false
	for _, e := range coll {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

func FindByID(coll []Expense, id string) (Expense, bool) {
	for _, e := range coll {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

// SortByDateDesc returns a copy of coll ordered newest first.
func SortByDateDesc(coll []Expense) []Expense {
	out := append([]Expense(nil), coll...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Sanitize repairs records received from outside the parser: missing ids
// are generated, unknown categories fold into the fallback and empty
// descriptions get the fallback word. Records without a positive amount or
// a date are dropped. The input is not modified.
func Sanitize(coll []Expense, table *CategoryTable, newID func() string) []Expense {
	out := make([]Expense, 0, len(coll))
	seen := make(map[string]struct{}, len(coll))
	for _, e := range coll {
		if !(e.Amount > 0) || e.Date.IsZero() {
			continue
		}
		if _, dup := seen[e.ID]; strings.TrimSpace(e.ID) == "" || dup {
			e.ID = newID()
		}
		seen[e.ID] = struct{}{}
		if strings.TrimSpace(e.Description) == "" {
			e.Description = FallbackDescription
		}
		e.Category = table.Resolve(e.Category).Key
		out = append(out, e)
	}
	return out
}
