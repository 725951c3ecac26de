// Package scan locates multiple-choice questions in a page snapshot. Each
// scanner is an independent, read-only detector for one structural pattern;
// the aggregator runs them in a fixed priority order and deduplicates the
// merged output.
package scan

import (
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Options is the immutable detection configuration threaded into every
// aggregator pass. It is a value copy: nothing mutates it mid-scan.
type Options struct {
	DOMDetection    bool
	ShadowDOM       bool
	ImageDetection  bool
	MathDetection   bool
	CustomSelectors []string
}

// Env carries per-pass state shared by the scanners: configuration, a
// logger, and the set of controls already grouped by an earlier, more
// specific scanner so later ones do not re-group them.
type Env struct {
	Opts    Options
	Log     zerolog.Logger
	claimed map[*html.Node]bool
}

// NewEnv builds a fresh environment for one aggregator pass.
func NewEnv(opts Options, log zerolog.Logger) *Env {
	return &Env{Opts: opts, Log: log, claimed: make(map[*html.Node]bool)}
}

// Claim marks a control as grouped by the current scanner.
func (e *Env) Claim(n *html.Node) { e.claimed[n] = true }

// IsClaimed reports whether an earlier scanner already grouped the control.
func (e *Env) IsClaimed(n *html.Node) bool { return e.claimed[n] }

// Scanner is one detection strategy. Implementations walk the snapshot
// read-only, tolerate malformed markup by omitting candidates, and never
// panic across this boundary.
type Scanner interface {
	Name() string
	Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ
}

// Tunable detection heuristics. These encode observed quiz-page shapes, not
// contracts; they are named so deployments can reason about them.
const (
	// minQuestionLen is the shortest text accepted as a question candidate.
	minQuestionLen = 10
	// maxSynthesizedLen caps the fallback label built from an element's own
	// leading text.
	maxSynthesizedLen = 100
	// ancestorTextDepth limits how deep ancestor text is collected when no
	// better option label exists.
	ancestorTextDepth = 2
)

// containerSelector lists the elements treated as logical question
// containers when grouping controls without a semantic group attribute.
var containerTags = []string{"form", "fieldset"}

// questionClassTokens are class names that conventionally mark a question
// container or its prompt across quiz platforms.
var questionClassTokens = []string{"question", "question-text", "quiz-question", "mcq-question", "mcq", "multiple-choice"}

func hasQuestionClass(n *html.Node) bool {
	for _, t := range questionClassTokens {
		if dom.HasClassToken(n, t) {
			return true
		}
	}
	return false
}

// isQuestionContainer matches the containers option grouping falls back to.
func isQuestionContainer(n *html.Node) bool {
	return dom.IsElement(n, containerTags...) || (dom.IsElement(n, "div") && hasQuestionClass(n))
}

// anyChecked reports whether any control in the group carries a live
// checked attribute. Snapshots serialize live control state into
// attributes, so this reflects the state at capture time.
func anyChecked(controls []*html.Node) bool {
	for _, c := range controls {
		if dom.HasAttr(c, "checked") {
			return true
		}
	}
	return false
}
