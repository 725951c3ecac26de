// Package match resolves free-text model answers against a fixed option
// list. Models phrase "the answer is option 2" in many ways; resolution is
// layered so that a cheap exact comparison short-circuits before fuzzier
// strategies get a chance to mis-fire.
package match

import (
	"strconv"
	"strings"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Tier names the strategy layer that produced a match, for diagnostics.
type Tier string

const (
	TierExact     Tier = "exact"
	TierSubstring Tier = "substring"
	TierIndex     Tier = "index"
	TierFuzzy     Tier = "fuzzy"
	TierNone      Tier = "none"
)

// FuzzyThreshold is the minimum normalized similarity the best-scoring
// option must exceed before the fuzzy layer accepts it. Tunable heuristic;
// 0.5 mirrors long-observed behavior against typo-laden model output.
const FuzzyThreshold = 0.5

// Result is the outcome of matching one answer against one option list.
type Result struct {
	Options []mcq.Option
	Tier    Tier
}

// Empty reports whether no layer produced a match. The orchestrator treats
// this as a hard failure for the MCQ: nothing is selected.
func (r Result) Empty() bool { return len(r.Options) == 0 }

// Match resolves answer against options. Layers run strictly in order and
// each is attempted only when every previous layer produced zero matches:
// exact equality, substring containment (both directions, skipped for
// single-rune answers), letter/number index decoding, then fuzzy
// similarity. Matched options preserve option list order.
func Match(answer string, options []mcq.Option) Result {
	norm := strings.ToLower(strings.TrimSpace(answer))
	if norm == "" || len(options) == 0 {
		return Result{Tier: TierNone}
	}

	if m := exact(norm, options); len(m) > 0 {
		return Result{Options: m, Tier: TierExact}
	}
	// A single-rune answer is index shorthand ("b", "3"): containment on
	// one character matches almost any option, so the index layer decodes
	// it instead.
	if len([]rune(norm)) > 1 {
		if m := substring(norm, options); len(m) > 0 {
			return Result{Options: m, Tier: TierSubstring}
		}
	}
	if m := index(norm, options); len(m) > 0 {
		return Result{Options: m, Tier: TierIndex}
	}
	if m := fuzzy(norm, options); len(m) > 0 {
		return Result{Options: m, Tier: TierFuzzy}
	}
	return Result{Tier: TierNone}
}

func exact(norm string, options []mcq.Option) []mcq.Option {
	var out []mcq.Option
	for _, o := range options {
		if strings.ToLower(strings.TrimSpace(o.Text)) == norm {
			out = append(out, o)
		}
	}
	return out
}

func substring(norm string, options []mcq.Option) []mcq.Option {
	var out []mcq.Option
	for _, o := range options {
		ot := strings.ToLower(strings.TrimSpace(o.Text))
		if ot == "" {
			continue
		}
		// Both directions: models echo extra words or truncate.
		if strings.Contains(ot, norm) || strings.Contains(norm, ot) {
			out = append(out, o)
		}
	}
	return out
}

// index decodes answers like "b", "B)", "2", or "(3)" into an option
// position. One leading and trailing punctuation/quote rune is stripped
// before decoding; the index must land inside the option list.
func index(norm string, options []mcq.Option) []mcq.Option {
	s := strings.Trim(norm, `.)("'` + "`")
	s = strings.TrimSpace(s)

	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		i := int(s[0] - 'a')
		if i < len(options) {
			return []mcq.Option{options[i]}
		}
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		i := n - 1
		if i >= 0 && i < len(options) {
			return []mcq.Option{options[i]}
		}
	}
	return nil
}

func fuzzy(norm string, options []mcq.Option) []mcq.Option {
	best := -1
	bestScore := 0.0
	for i, o := range options {
		score := Similarity(strings.ToLower(o.Text), norm)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best >= 0 && bestScore > FuzzyThreshold {
		return []mcq.Option{options[best]}
	}
	return nil
}
