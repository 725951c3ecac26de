package mcq

import (
	"regexp"
	"strings"
	"unicode"
)

// Leading enumerators like "A)", "b.", "3)" and common bullet glyphs.
var (
	enumeratorRe = regexp.MustCompile(`^\s*[A-Za-z0-9][.)]\s+`)
	bulletRe     = regexp.MustCompile(`^\s*[\x{2022}\x{25CB}\x{25CF}\x{25EF}\x{26AA}\x{26AB}\x{2610}\x{2611}\x{2612}\x{2013}\x{2014}*-]\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanText normalizes an extracted label: strips a leading enumerator or
// bullet, trims non-alphanumeric edges and collapses internal whitespace.
// The '?' terminator of a question survives the trim.
func CleanText(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = enumeratorRe.ReplaceAllString(s, "")
	s = bulletRe.ReplaceAllString(s, "")
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '?'
	})
	return strings.TrimSpace(s)
}

// IsAnswerKeyArtifact reports whether a cleaned label is a bare answer-key
// letter (A-D). These show up when a page renders the key column separately
// from the option text and must not count as real options.
func IsAnswerKeyArtifact(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'D') || (c >= 'a' && c <= 'd')
}

// Truncate shortens s to at most n runes, appending an ellipsis marker when
// something was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
