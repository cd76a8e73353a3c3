package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var refNow = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		line string
		want time.Time
		rule DateRule
		raw  string
	}{
		{"pagué ayer 500", refNow.AddDate(0, 0, -1), RuleYesterday, "ayer"},
		{"AYER 500 coto", refNow.AddDate(0, 0, -1), RuleYesterday, "AYER"},
		{"ayer 500 coto 12/03", refNow.AddDate(0, 0, -1), RuleYesterday, "ayer"},
		{"anteayer 300", refNow.AddDate(0, 0, -2), RuleDayBeforeYesterday, "anteayer"},
		{"antes de ayer 300", refNow.AddDate(0, 0, -2), RuleDayBeforeYesterday, "antes de ayer"},
		{"hace dos dias 3.500 coto", refNow.AddDate(0, 0, -2), RuleDaysAgo, "hace dos dias"},
		{"hace 5 días 100", refNow.AddDate(0, 0, -5), RuleDaysAgo, "hace 5 días"},
		{"hace un dia 100", refNow.AddDate(0, 0, -1), RuleDaysAgo, "hace un dia"},
		{"hace una semana 100", refNow.AddDate(0, 0, -7), RuleWeeksAgo, "hace una semana"},
		{"hace tres semanas 100", refNow.AddDate(0, 0, -21), RuleWeeksAgo, "hace tres semanas"},
		{"1,5k nafta 12/03", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), RuleExplicit, "12/03"},
		{"luz 4/1/24 8000", time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), RuleExplicit, "4/1/24"},
		{"gas 28/02/2023 9000", time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), RuleExplicit, "28/02/2023"},
		{"gas 31/02 500", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), RuleExplicit, "31/02"},
		{"500 coto", refNow, RuleNone, ""},
		{"mayer 500", refNow, RuleNone, ""},
		{"45/13 500", refNow, RuleNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m := ResolveDate(tt.line, refNow)
			assert.True(t, tt.want.Equal(m.Date), "got %v, want %v", m.Date, tt.want)
			assert.Equal(t, tt.rule, m.Rule)
			assert.Equal(t, tt.raw, m.Raw)
			if tt.raw != "" {
				assert.Equal(t, tt.raw, tt.line[m.Span().Start:m.Span().End])
			} else {
				assert.True(t, m.Span().Empty())
			}
		})
	}
}

func TestResolveDate_OneRuleOnly(t *testing.T) {
	// weeks never win over days when both cues appear
	m := ResolveDate("hace 2 semanas y hace 3 dias", refNow)
	assert.Equal(t, RuleDaysAgo, m.Rule)
	assert.Equal(t, "hace 3 dias", m.Raw)
}

func TestDateRuleString(t *testing.T) {
	assert.Equal(t, "none", RuleNone.String())
	assert.Equal(t, "explicit", RuleExplicit.String())
}
