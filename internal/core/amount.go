package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountMatch is the first amount found in a line.
type AmountMatch struct {
	Value  float64
	Raw    string // exact matched text, suffix included
	Token  string // digits and separators only
	Suffix string // "k", "mil" or empty
	span   Span
}

// Span locates Raw inside the parsed line.
func (m AmountMatch) Span() Span {
	return m.span
}

var (
	// Separators are only allowed between digits. The suffix must end on a
	// word boundary so "500 milanesa" is not read as 500 mil.
	amountPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)(?:\s*(k|mil)\b)?`)

	thousand = decimal.NewFromInt(1000)
)

// ParseAmount extracts the first amount of line.
//
// Separator rules: with both '.' and ',' the dot groups thousands and the
// comma is the decimal point ("3.500,50" = 3500.50). A lone ',' is the
// decimal point ("15,5"). A lone '.' groups thousands only when exactly three
// digits follow the last one ("3.500" = 3500, "15.5" = 15.5). A "k" or "mil"
// suffix multiplies by 1000.
func ParseAmount(line string) (AmountMatch, error) {
	return parseAmountOutside(line, Span{})
}

// parseAmountOutside is ParseAmount with the bytes in skip hidden from the
// search, so a number belonging to a date cue is never taken as the amount.
func parseAmountOutside(line string, skip Span) (AmountMatch, error) {
	search := line
	if !skip.Empty() {
		search = line[:skip.Start] + strings.Repeat(" ", skip.End-skip.Start) + line[skip.End:]
	}
	loc := amountPattern.FindStringSubmatchIndex(search)
	if loc == nil {
		return AmountMatch{}, ErrNoAmount
	}

	m := AmountMatch{
		Raw:   line[loc[0]:loc[1]],
		Token: line[loc[2]:loc[3]],
		span:  Span{Start: loc[0], End: loc[1]},
	}
	if loc[4] >= 0 {
		m.Suffix = strings.ToLower(line[loc[4]:loc[5]])
	}

	d, err := decimal.NewFromString(normalizeSeparators(m.Token))
	if err != nil {
		return m, fmt.Errorf("%w: %q", ErrInvalidNumeric, m.Token)
	}
	if m.Suffix != "" {
		d = d.Mul(thousand)
	}
	if !d.IsPositive() {
		return m, fmt.Errorf("%w: %q is not positive", ErrInvalidNumeric, m.Token)
	}
	m.Value = d.InexactFloat64()
	return m, nil
}

// normalizeSeparators rewrites a locale-ambiguous token into plain decimal
// notation. Malformed sequences are left for the decimal parser to reject.
func normalizeSeparators(token string) string {
	hasDot := strings.Contains(token, ".")
	hasComma := strings.Contains(token, ",")
	switch {
	case hasDot && hasComma:
		return strings.Replace(strings.ReplaceAll(token, ".", ""), ",", ".", 1)
	case hasComma:
		return strings.Replace(token, ",", ".", 1)
	case hasDot:
		if len(token)-strings.LastIndex(token, ".")-1 == 3 {
			return strings.ReplaceAll(token, ".", "")
		}
	}
	return token
}
