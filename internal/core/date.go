package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateRule identifies which cue resolved a line's date.
type DateRule int

const (
	RuleNone DateRule = iota
	RuleYesterday
	RuleDayBeforeYesterday
	RuleDaysAgo
	RuleWeeksAgo
	RuleExplicit
)

func (r DateRule) String() string {
	switch r {
	case RuleYesterday:
		return "yesterday"
	case RuleDayBeforeYesterday:
		return "day_before_yesterday"
	case RuleDaysAgo:
		return "days_ago"
	case RuleWeeksAgo:
		return "weeks_ago"
	case RuleExplicit:
		return "explicit"
	default:
		return "none"
	}
}

// DateMatch is the resolved date of a line and the cue that produced it.
// Raw is empty and Rule is RuleNone when the date defaulted to now.
type DateMatch struct {
	Date time.Time
	Raw  string
	Rule DateRule
	span Span
}

func (m DateMatch) Span() Span {
	return m.span
}

var (
	yesterdayPattern    = regexp.MustCompile(`(?i)\bayer\b`)
	antesDeSuffix       = regexp.MustCompile(`(?i)\bantes\s+de\s+$`)
	dayBeforePattern    = regexp.MustCompile(`(?i)\banteayer\b|\bantes\s+de\s+ayer\b`)
	daysAgoPattern      = regexp.MustCompile(`(?i)\bhace\s+(\d+|una|un|dos|tres)\s+d[ií]as?\b`)
	weeksAgoPattern     = regexp.MustCompile(`(?i)\bhace\s+(\d+|una|un|dos|tres)\s+semanas?\b`)
	explicitDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
)

var countWords = map[string]int{
	"un":   1,
	"una":  1,
	"dos":  2,
	"tres": 3,
}

// ResolveDate finds the first date cue of line in fixed precedence order:
// "ayer", "anteayer"/"antes de ayer", "hace N dias", "hace N semanas",
// then an explicit D/M[/Y]. Matching is case-insensitive. Without a cue the
// date is now, time of day included.
func ResolveDate(line string, now time.Time) DateMatch {
	if loc := findYesterday(line); loc != nil {
		return relativeMatch(line, loc, RuleYesterday, now.AddDate(0, 0, -1))
	}
	if loc := dayBeforePattern.FindStringIndex(line); loc != nil {
		return relativeMatch(line, loc, RuleDayBeforeYesterday, now.AddDate(0, 0, -2))
	}
	if loc := daysAgoPattern.FindStringSubmatchIndex(line); loc != nil {
		if n, ok := parseCount(line[loc[2]:loc[3]]); ok {
			return relativeMatch(line, loc, RuleDaysAgo, now.AddDate(0, 0, -n))
		}
	}
	if loc := weeksAgoPattern.FindStringSubmatchIndex(line); loc != nil {
		if n, ok := parseCount(line[loc[2]:loc[3]]); ok {
			return relativeMatch(line, loc, RuleWeeksAgo, now.AddDate(0, 0, -7*n))
		}
	}
	if m, ok := explicitDate(line, now); ok {
		return m
	}
	return DateMatch{Date: now, Rule: RuleNone}
}

// findYesterday locates a standalone "ayer" that is not the tail of
// "antes de ayer", which belongs to the day-before-yesterday rule.
func findYesterday(line string) []int {
	for _, loc := range yesterdayPattern.FindAllStringIndex(line, -1) {
		if antesDeSuffix.MatchString(line[:loc[0]]) {
			continue
		}
		return loc
	}
	return nil
}

func relativeMatch(line string, loc []int, rule DateRule, date time.Time) DateMatch {
	return DateMatch{
		Date: date,
		Raw:  line[loc[0]:loc[1]],
		Rule: rule,
		span: Span{Start: loc[0], End: loc[1]},
	}
}

func parseCount(s string) (int, bool) {
	if n, ok := countWords[strings.ToLower(s)]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func explicitDate(line string, now time.Time) (DateMatch, bool) {
	loc := explicitDatePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return DateMatch{}, false
	}
	day, _ := strconv.Atoi(line[loc[2]:loc[3]])
	month, _ := strconv.Atoi(line[loc[4]:loc[5]])
	// Only the ranges are checked; a day past the end of its month rolls
	// over into the next one (31/02 is 3 March).
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return DateMatch{}, false
	}

	year := now.Year()
	if loc[6] >= 0 {
		ys := line[loc[6]:loc[7]]
		year, _ = strconv.Atoi(ys)
		if len(ys) == 2 {
			year += 2000
		}
	}

	return DateMatch{
		Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()),
		Raw:  line[loc[0]:loc[1]],
		Rule: RuleExplicit,
		span: Span{Start: loc[0], End: loc[1]},
	}, true
}
