package core

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Classifier maps a description to a category key by case-insensitive
// substring search over the table's keywords. When several categories match,
// the one declared first wins; the fallback is returned when none do.
//
// Matching is not word-bounded: "dia" inside "medialunas" counts.
type Classifier struct {
	table   *CategoryTable
	matcher *ahocorasick.Matcher
	owners  []int // keyword index -> category index
}

// NewClassifier compiles the table's keywords into a single automaton.
// The classifier is safe for concurrent use.
func NewClassifier(table *CategoryTable) *Classifier {
	c := &Classifier{table: table}

	seen := make(map[string]struct{})
	var dict []string
	for i, cat := range table.categories {
		if i == table.fallback {
			continue
		}
		for _, kw := range cat.Keywords {
			// a keyword shared by two categories belongs to the first one
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			dict = append(dict, kw)
			c.owners = append(c.owners, i)
		}
	}
	if len(dict) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(dict)
	}
	return c
}

// Classify returns the category key for description.
func (c *Classifier) Classify(description string) string {
	if c.matcher == nil {
		return c.table.Fallback().Key
	}
	best := -1
	for _, hit := range c.matcher.MatchThreadSafe([]byte(strings.ToLower(description))) {
		if owner := c.owners[hit]; best < 0 || owner < best {
			best = owner
		}
	}
	if best < 0 {
		return c.table.Fallback().Key
	}
	return c.table.categories[best].Key
}

// Table returns the category table the classifier was built from.
func (c *Classifier) Table() *CategoryTable {
	return c.table
}
