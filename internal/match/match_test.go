package match

import (
	"math"
	"testing"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

func opts(texts ...string) []mcq.Option {
	out := make([]mcq.Option, len(texts))
	for i, t := range texts {
		out[i] = mcq.Option{Text: t}
	}
	return out
}

var capitals = opts("Paris", "Lisbon", "Madrid")

func TestMatchExact(t *testing.T) {
	r := Match("Paris", capitals)
	if r.Tier != TierExact || len(r.Options) != 1 || r.Options[0].Text != "Paris" {
		t.Fatalf("got %+v", r)
	}
	r = Match("  pAris ", capitals)
	if r.Tier != TierExact || r.Options[0].Text != "Paris" {
		t.Fatalf("case/space-insensitive exact failed: %+v", r)
	}
}

func TestMatchSubstring(t *testing.T) {
	r := Match("the capital is paris, france", capitals)
	if r.Tier != TierSubstring || len(r.Options) != 1 || r.Options[0].Text != "Paris" {
		t.Fatalf("got %+v", r)
	}
}

func TestMatchIndexLetter(t *testing.T) {
	r := Match("b", capitals)
	if r.Tier != TierIndex || len(r.Options) != 1 || r.Options[0].Text != "Lisbon" {
		t.Fatalf("got %+v", r)
	}
	r = Match("C)", capitals)
	if r.Tier != TierIndex || r.Options[0].Text != "Madrid" {
		t.Fatalf("punctuated letter failed: %+v", r)
	}
	// Out of bounds letters must not match.
	r = Match("z", capitals)
	if !r.Empty() {
		t.Fatalf("letter out of bounds matched: %+v", r)
	}
}

func TestMatchSingleLetterSkipsSubstring(t *testing.T) {
	// "a" occurs inside both Paris and Madrid; containment would select
	// two options where index decoding names exactly one.
	r := Match("a", capitals)
	if r.Tier != TierIndex || len(r.Options) != 1 || r.Options[0].Text != "Paris" {
		t.Fatalf("got %+v", r)
	}
}

func TestMatchIndexNumber(t *testing.T) {
	r := Match("2", capitals)
	if r.Tier != TierIndex || len(r.Options) != 1 || r.Options[0].Text != "Lisbon" {
		t.Fatalf("got %+v", r)
	}
	for _, bad := range []string{"0", "4", "-1"} {
		if r := Match(bad, capitals); r.Tier == TierIndex {
			t.Fatalf("out-of-range %q index-matched: %+v", bad, r)
		}
	}
}

func TestMatchFuzzyTypo(t *testing.T) {
	// "Parris" is not a substring of any option and vice versa, so it has
	// to fall through to the fuzzy layer.
	r := Match("Parris", capitals)
	if len(r.Options) != 1 || r.Options[0].Text != "Paris" {
		t.Fatalf("got %+v", r)
	}
	// "Pariss" contains "paris" so it resolves earlier, but still to Paris.
	r = Match("Pariss", capitals)
	if len(r.Options) != 1 || r.Options[0].Text != "Paris" {
		t.Fatalf("got %+v", r)
	}
}

func TestMatchNoMatch(t *testing.T) {
	r := Match("Berlin", capitals)
	if !r.Empty() || r.Tier != TierNone {
		t.Fatalf("expected empty result, got %+v", r)
	}
	if r := Match("", capitals); !r.Empty() {
		t.Fatalf("empty answer matched: %+v", r)
	}
	if r := Match("Paris", nil); !r.Empty() {
		t.Fatalf("empty option list matched: %+v", r)
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("", ""); s != 1 {
		t.Fatalf("Similarity(\"\",\"\") = %v, want 1", s)
	}
	// kitten -> sitting is the canonical distance-3 pair.
	if s := Similarity("kitten", "sitting"); math.Abs(s-4.0/7.0) > 1e-9 {
		t.Fatalf("Similarity(kitten,sitting) = %v, want %v", s, 4.0/7.0)
	}
	if s := Similarity("abc", "abc"); s != 1 {
		t.Fatalf("identical strings = %v, want 1", s)
	}
	if s := Similarity("abc", ""); s != 0 {
		t.Fatalf("vs empty = %v, want 0", s)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"flaw", "lawn", 2},
		{"día", "dia", 1}, // runes, not bytes
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
