package scan

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// RadioScanner detects native radio-button groups.
type RadioScanner struct{}

func (RadioScanner) Name() string { return "radio" }

func (RadioScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	return radioGroupsIn(snap.Root, env, "radio")
}

// CheckboxScanner detects native checkbox groups.
type CheckboxScanner struct{}

func (CheckboxScanner) Name() string { return "checkbox" }

func (CheckboxScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	return checkboxGroupsIn(snap.Root, env, "checkbox")
}

// SelectScanner detects <select> dropdowns.
type SelectScanner struct{}

func (SelectScanner) Name() string { return "select" }

func (SelectScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	return selectsIn(snap.Root, env, "select")
}

// isPlaceholderOption flags non-answer entries like "Select an option" or
// "Choose...". Capitalized forms only: lowercase "selection" inside a real
// answer must survive.
func isPlaceholderOption(text string) bool {
	return strings.Contains(text, "Select") || strings.Contains(text, "Choose") ||
		strings.HasPrefix(text, "--")
}

func selectsIn(root *html.Node, env *Env, source string) []mcq.MCQ {
	var out []mcq.MCQ
	var selects []*html.Node
	dom.WalkLight(root, func(n *html.Node) bool {
		if dom.IsElement(n, "select") {
			selects = append(selects, n)
		}
		return true
	})

	for _, sel := range selects {
		entries := dom.Elements(sel, "option")
		if len(entries) < 2 {
			continue
		}

		var options []mcq.Option
		answered := false
		for i, entry := range entries {
			text := mcq.CleanText(dom.Text(entry))
			if text == "" {
				text = mcq.CleanText(dom.Attr(entry, "value"))
			}
			if dom.HasAttr(entry, "selected") && i > 0 {
				answered = true
			}
			if text == "" || isPlaceholderOption(text) {
				continue
			}
			options = append(options, mcq.Option{Text: text, Ref: mcq.Handle(dom.Path(entry))})
		}
		if len(options) < 2 {
			continue
		}

		q := selectQuestion(root, sel)
		if q == "" {
			texts := make([]string, len(options))
			for i, o := range options {
				texts[i] = o.Text
			}
			q = mcq.CleanText(synthesizeQuestion(questionCtx{root: root, container: sel.Parent}, texts))
		}
		if q == "" {
			continue
		}

		env.Claim(sel)
		out = append(out, mcq.MCQ{
			Question: q,
			Options:  options,
			Kind:     mcq.KindSelect,
			Answered: answered,
			Source:   source,
		})
	}
	return out
}

// selectQuestion labels a dropdown: label-for first, then a wrapping label
// minus the option texts, then nearby headings/siblings via the shared
// fallback chain.
func selectQuestion(root, sel *html.Node) string {
	if l := dom.LabelFor(root, dom.Attr(sel, "id")); l != nil {
		if t := mcq.CleanText(dom.Text(l)); t != "" {
			return t
		}
	}
	if wrap := dom.ClosestTag(sel, "label"); wrap != nil {
		t := dom.Text(wrap)
		t = strings.Replace(t, dom.Text(sel), "", 1)
		if t = mcq.CleanText(t); t != "" {
			return t
		}
	}
	return questionText(questionCtx{root: root, container: dom.Closest(sel, isQuestionContainer), controls: []*html.Node{sel}})
}
