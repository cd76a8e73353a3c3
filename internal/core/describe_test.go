package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func spanOf(line, sub string) Span {
	i := strings.Index(line, sub)
	return Span{Start: i, End: i + len(sub)}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		spans []string
		want  string
	}{
		{"amount removed", "500 comida", []string{"500"}, "Comida"},
		{"stop words", "gasté 500 pesos en el super!", []string{"500"}, "Super"},
		{"date cue removed", "hace dos dias 3.500 coto", []string{"3.500", "hace dos dias"}, "Coto"},
		{"suffix removed", "1,5k nafta 12/03", []string{"1,5k", "12/03"}, "Nafta"},
		{"only filler", "compré 300 hoy", []string{"300"}, FallbackDescription},
		{"symbols only", "$ 200", []string{"200"}, FallbackDescription},
		{"accented first letter", "ñandú 100", []string{"100"}, "Ñandú"},
		{"stop words are whole words", "500 entrada", []string{"500"}, "Entrada"},
		{"whitespace collapsed", "  pan   dulce  ", nil, "Pan dulce"},
		{"amount inside date cue", "12/03 nafta", []string{"12", "12/03"}, "Nafta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spans []Span
			for _, s := range tt.spans {
				spans = append(spans, spanOf(tt.line, s))
			}
			assert.Equal(t, tt.want, NormalizeDescription(tt.line, spans...))
		})
	}
}

func TestNormalizeDescription_Idempotent(t *testing.T) {
	for _, line := range []string{"pan dulce", "Uber al centro", "Café con leche", "Varios"} {
		once := NormalizeDescription(line)
		assert.Equal(t, once, NormalizeDescription(once), line)
	}
}

func TestCutSpans_IgnoresBadSpans(t *testing.T) {
	line := "abc def"
	got := cutSpans(line, []Span{{Start: 4, End: 7}, {Start: -1, End: 2}, {Start: 3, End: 99}})
	assert.Equal(t, "abc  ", got)
}

func TestCutSpans_MergesOverlaps(t *testing.T) {
	assert.Equal(t, "ab ", cutSpans("abc def", []Span{{Start: 4, End: 7}, {Start: 2, End: 5}}))

	line := "12/03 nafta"
	assert.Equal(t, "  nafta", cutSpans(line, []Span{spanOf(line, "12"), spanOf(line, "12/03")}))
	assert.Equal(t, "  nafta", cutSpans(line, []Span{spanOf(line, "12/03"), spanOf(line, "12")}))
}
