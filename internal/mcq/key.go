package mcq

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, drops every rune that is not alphanumeric, a
// space or '?', and collapses runs of whitespace. Used for detection keys
// so that cosmetic markup differences do not defeat deduplication.
func Normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '?':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Key derives the deduplication key for an MCQ: the normalized question
// joined with the normalized option texts. Two MCQs with equal keys are the
// same logical question; within one scan pass only the first is kept.
func Key(m MCQ) string {
	parts := make([]string, 0, len(m.Options)+1)
	parts = append(parts, Normalize(m.Question))
	for _, o := range m.Options {
		parts = append(parts, Normalize(o.Text))
	}
	return strings.Join(parts, "|")
}
