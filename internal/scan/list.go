package scan

import (
	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// ListScanner detects ul/ol structures used as option lists: the question
// is the nearest preceding sibling with substantive text, the list items
// are the options.
type ListScanner struct{}

func (ListScanner) Name() string { return "list" }

func (ListScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	var out []mcq.MCQ
	var lists []*html.Node
	dom.WalkLight(snap.Root, func(n *html.Node) bool {
		if dom.IsElement(n, "ul", "ol") {
			lists = append(lists, n)
			return false // nested lists belong to their parent candidate
		}
		return true
	})

	for _, list := range lists {
		items := directListItems(list)
		if len(items) < 2 {
			continue
		}

		q := precedingQuestion(snap.Root, list)
		if q == "" {
			continue // a bare list with no prompt is navigation, not a quiz
		}

		var options []mcq.Option
		unclaimed := false
		for _, li := range items {
			control := li
			if in, _ := dom.FindFirst(li, `input[type="radio"], input[type="checkbox"]`); in != nil {
				control = in
			}
			text := mcq.CleanText(dom.TextDepth(li, ancestorTextDepth))
			if text == "" {
				continue
			}
			if !env.IsClaimed(control) {
				unclaimed = true
			}
			options = append(options, mcq.Option{Text: text, Ref: mcq.Handle(dom.Path(control))})
		}
		if len(options) < 2 || !unclaimed {
			continue
		}

		out = append(out, mcq.MCQ{
			Question: q,
			Options:  options,
			Kind:     mcq.KindList,
			Answered: false, // indeterminable for plain list markup
			Source:   "list",
		})
	}
	return out
}

func directListItems(list *html.Node) []*html.Node {
	var items []*html.Node
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if dom.IsElement(c, "li") {
			items = append(items, c)
		}
	}
	return items
}

// precedingQuestion finds the nearest preceding sibling of the list (or of
// an ancestor) carrying text long enough to be a prompt.
func precedingQuestion(root, list *html.Node) string {
	for cur := list; cur != nil && cur != root; cur = cur.Parent {
		for sib := dom.PrevElementSibling(cur); sib != nil; sib = dom.PrevElementSibling(sib) {
			if t := mcq.CleanText(dom.Text(sib)); len(t) >= minQuestionLen {
				return t
			}
		}
	}
	return ""
}
