package core

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackDescription replaces a description that normalizes to nothing.
const FallbackDescription = "Varios"

var (
	wordPattern       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	disallowedPattern = regexp.MustCompile(`[^\w\sñÑáéíóúÁÉÍÓÚüÜ]`)
	spacePattern      = regexp.MustCompile(`\s+`)

	stopWords = map[string]struct{}{
		"gaste": {}, "gasté": {}, "compre": {}, "compré": {},
		"en": {}, "el": {}, "la": {}, "los": {}, "las": {},
		"un": {}, "una": {}, "unos": {}, "unas": {},
		"hoy": {}, "pesos": {}, "peso": {},
	}
)

// NormalizeDescription turns a raw line into a display description: the
// consumed spans (amount and date cue) are cut out, filler words and symbols
// are dropped, whitespace is collapsed and the first letter is capitalized.
func NormalizeDescription(line string, consumed ...Span) string {
	desc := cutSpans(line, consumed)
	desc = wordPattern.ReplaceAllStringFunc(desc, func(w string) string {
		if _, stop := stopWords[strings.ToLower(w)]; stop {
			return ""
		}
		return w
	})
	desc = disallowedPattern.ReplaceAllString(desc, "")
	desc = strings.TrimSpace(spacePattern.ReplaceAllString(desc, " "))
	if desc == "" {
		desc = FallbackDescription
	}
	return capitalizeFirst(desc)
}

// cutSpans removes spans from s, merging the ones that overlap and cutting
// the last first so earlier offsets stay valid. Out of range or empty spans
// are ignored.
func cutSpans(s string, spans []Span) string {
	valid := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if sp.Empty() || sp.Start < 0 || sp.End > len(s) {
			continue
		}
		valid = append(valid, sp)
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	merged := valid[:0]
	for _, sp := range valid {
		if n := len(merged); n > 0 && sp.Start < merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, sp.End)
			continue
		}
		merged = append(merged, sp)
	}

	for i := len(merged) - 1; i >= 0; i-- {
		s = s[:merged[i].Start] + " " + s[merged[i].End:]
	}
	return s
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
