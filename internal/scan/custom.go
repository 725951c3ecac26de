package scan

import (
	"strings"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// CustomScanner evaluates user-supplied container selectors. Selector
// syntax comes from configuration and is untrusted: a selector that fails
// to compile is logged and skipped, never fatal.
type CustomScanner struct{}

func (CustomScanner) Name() string { return "custom" }

func (CustomScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	var out []mcq.MCQ
	for _, raw := range env.Opts.CustomSelectors {
		sel := strings.TrimSpace(raw)
		if sel == "" {
			continue
		}
		containers, err := dom.Find(snap.Root, sel)
		if err != nil {
			env.Log.Warn().Err(err).Str("selector", sel).Msg("skipping invalid custom selector")
			continue
		}
		spec := patternSpec{
			name:     "custom",
			question: []string{"h1, h2, h3, h4, h5, h6, p, div.question, .question-text"},
			option:   `li, .option, .answer, .choice, label, input[type="radio"], input[type="checkbox"]`,
		}
		for _, c := range containers {
			if m, ok := containerMCQ(snap.Root, env, c, spec, "custom"); ok {
				m.Kind = mcq.KindCustom
				// Answered state is undeterminable for arbitrary markup.
				m.Answered = false
				out = append(out, m)
			}
		}
	}
	return out
}
