package scan

import (
	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// patternSpec describes one known container shape. Vendor markup (form
// builders) is handled as just another container selector, not a special
// code path.
type patternSpec struct {
	name string
	// container matches the question wrapper.
	container string
	// question selectors tried in order inside the container.
	question []string
	// option matches the option elements inside the container.
	option string
	// inputLabel, when set, locates the label wrapper for bare inputs.
	inputLabel string
}

var builtinPatterns = []patternSpec{
	{
		name:       "gforms",
		container:  ".freebirdFormviewerComponentsQuestionBaseRoot",
		question:   []string{".freebirdFormviewerComponentsQuestionBaseTitle"},
		option:     `input[type="radio"], input[type="checkbox"]`,
		inputLabel: ".docssharedWizToggleLabeledContainer",
	},
	{
		name:      "generic",
		container: ".question, .mcq, .multiple-choice, .quiz-question",
		question:  []string{".question-text", ".stem", "h3", "h4", "p"},
		option:    `.option, .answer, .choice, li, label`,
	},
}

// PatternScanner detects MCQs laid out with conventional quiz-platform
// markup, including vendor-specific class names.
type PatternScanner struct{}

func (PatternScanner) Name() string { return "pattern" }

func (PatternScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	var out []mcq.MCQ
	for _, spec := range builtinPatterns {
		out = append(out, scanPattern(snap.Root, env, spec)...)
	}
	return out
}

func scanPattern(root *html.Node, env *Env, spec patternSpec) []mcq.MCQ {
	containers, err := dom.Find(root, spec.container)
	if err != nil {
		env.Log.Warn().Err(err).Str("pattern", spec.name).Msg("pattern selector failed")
		return nil
	}
	var out []mcq.MCQ
	for _, c := range containers {
		if m, ok := containerMCQ(root, env, c, spec, "pattern:"+spec.name); ok {
			out = append(out, m)
		}
	}
	return out
}

// containerMCQ extracts one candidate from a matched container. Shared by
// the pattern and custom-selector scanners.
func containerMCQ(root *html.Node, env *Env, container *html.Node, spec patternSpec, source string) (mcq.MCQ, bool) {
	q := patternQuestion(container, spec.question)
	optEls, err := dom.Find(container, spec.option)
	if err != nil {
		env.Log.Warn().Err(err).Str("source", source).Msg("option selector failed")
		return mcq.MCQ{}, false
	}

	options, kind, sawUnclaimed := optionsFromElements(root, env, optEls, spec.inputLabel)
	if len(options) < 2 || !sawUnclaimed {
		return mcq.MCQ{}, false
	}
	if q == "" {
		texts := make([]string, len(options))
		for i, o := range options {
			texts[i] = o.Text
		}
		q = mcq.CleanText(synthesizeQuestion(questionCtx{root: root, container: container}, texts))
	}
	if q == "" {
		return mcq.MCQ{}, false
	}

	answered := false
	for _, in := range dom.Elements(container, "input") {
		if dom.HasAttr(in, "checked") {
			answered = true
			break
		}
	}

	return mcq.MCQ{
		Question: q,
		Options:  options,
		Kind:     kind,
		Answered: answered,
		Source:   source,
	}, true
}

func patternQuestion(container *html.Node, selectors []string) string {
	for _, sel := range selectors {
		n, err := dom.FindFirst(container, sel)
		if err != nil || n == nil {
			continue
		}
		if t := mcq.CleanText(dom.TextDepth(n, ancestorTextDepth)); len(t) >= minQuestionLen {
			return t
		}
	}
	// First substantive direct text node as a last in-container attempt.
	if t := mcq.CleanText(dom.OwnText(container)); len(t) >= minQuestionLen {
		return t
	}
	return ""
}

// optionsFromElements converts matched option elements into Options. Bare
// inputs take their label chain (or the inputLabel wrapper when given);
// everything else contributes its text content. Returns the inferred kind
// and whether at least one backing control was not claimed by an earlier
// scanner.
func optionsFromElements(root *html.Node, env *Env, els []*html.Node, inputLabel string) ([]mcq.Option, mcq.Kind, bool) {
	kind := mcq.KindCustom
	var options []mcq.Option
	sawUnclaimed := false
	seen := map[*html.Node]bool{}

	for _, el := range els {
		control := el
		text := ""
		if dom.IsElement(el, "input") {
			switch {
			case dom.IsInput(el, "radio"):
				kind = mcq.KindRadio
			case dom.IsInput(el, "checkbox"):
				kind = mcq.KindCheckbox
			default:
				continue
			}
			if inputLabel != "" {
				if wrap := dom.Closest(el, func(n *html.Node) bool {
					m, err := dom.Matches(n, inputLabel)
					return err == nil && m
				}); wrap != nil {
					text = dom.Text(wrap)
				}
			}
			if text == "" {
				text = optionText(root, el)
			}
		} else {
			// Skip wrappers whose inner input was already matched too.
			if in, _ := dom.FindFirst(el, "input"); in != nil {
				if seen[in] {
					continue
				}
				seen[in] = true
				control = in
			}
			text = dom.TextDepth(el, ancestorTextDepth)
		}

		cleaned := mcq.CleanText(text)
		if cleaned == "" {
			continue
		}
		if !env.IsClaimed(control) {
			sawUnclaimed = true
		}
		options = append(options, mcq.Option{Text: cleaned, Ref: mcq.Handle(dom.Path(control))})
	}
	return options, kind, sawUnclaimed
}
