package scan

import (
	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Aggregator runs the scanner set in a fixed priority order and merges the
// results into one deduplicated candidate list. Order matters: when two
// scanners describe the same logical question, the more structurally
// reliable detection wins the dedup race.
type Aggregator struct {
	scanners []Scanner
	log      zerolog.Logger
}

// NewAggregator wires the default scanner set: native form controls first,
// then structural/shadow/custom patterns, then list-based, then images and
// math. OCR-derived candidates enter through Run's extra argument and rank
// last.
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		scanners: []Scanner{
			RadioScanner{},
			CheckboxScanner{},
			SelectScanner{},
			PatternScanner{},
			ShadowScanner{},
			CustomScanner{},
			ListScanner{},
			ImageScanner{},
			MathScanner{},
		},
		log: log.With().Str("component", "aggregator").Logger(),
	}
}

// Run executes one aggregation pass over the snapshot. extra carries
// candidates produced outside the DOM walk (the OCR extractor); they join
// the dedup with the lowest priority. The pass is idempotent over an
// unchanged snapshot, modulo live answered state.
func (a *Aggregator) Run(snap *dom.Snapshot, opts Options, extra ...mcq.MCQ) []mcq.MCQ {
	var candidates []mcq.MCQ
	if opts.DOMDetection {
		env := NewEnv(opts, a.log)
		for _, s := range a.scanners {
			candidates = append(candidates, a.runScanner(s, snap, env)...)
		}
	}
	candidates = append(candidates, extra...)

	seen := map[string]bool{}
	var out []mcq.MCQ
	for _, m := range candidates {
		m.Options = dropArtifacts(m.Options)
		if !m.Valid() {
			continue
		}
		key := mcq.Key(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// runScanner isolates one scanner: unexpected markup must cost at most its
// own candidates, never the pass.
func (a *Aggregator) runScanner(s Scanner, snap *dom.Snapshot, env *Env) (out []mcq.MCQ) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Str("scanner", s.Name()).Interface("panic", r).Msg("scanner panicked; dropping its candidates")
			out = nil
		}
	}()
	return s.Scan(snap, env)
}

// dropArtifacts removes options whose cleaned text is a bare answer-key
// letter. Runs before key computation and before validity counting so that
// artifacts can neither pollute dedup keys nor sink an otherwise-valid MCQ.
func dropArtifacts(options []mcq.Option) []mcq.Option {
	out := options[:0:0]
	for _, o := range options {
		if mcq.IsAnswerKeyArtifact(o.Text) {
			continue
		}
		out = append(out, o)
	}
	return out
}
