package scan

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// questionCtx is everything a question-text strategy may consult: the root
// being scanned (document or shadow root), the logical container of the
// group when one exists, and the grouped controls in DOM order.
type questionCtx struct {
	root      *html.Node
	container *html.Node
	controls  []*html.Node
}

// questionStrategy produces a candidate prompt or "" to pass the chain on.
type questionStrategy func(questionCtx) string

// questionStrategies is the priority-ordered fallback chain. Strategies are
// tried in order and the first non-empty result wins; the final synthesized
// fallback never returns empty, so every group gets some prompt.
var questionStrategies = []questionStrategy{
	questionFromDataAttr,
	questionFromAria,
	questionFromLabel,
	questionFromLegend,
	questionFromHeadingAncestor,
	questionFromClassContainer,
	questionFromPrecedingSibling,
}

// questionText resolves the prompt for a control group. Synthesis from
// option labels is the last resort and is handled by the caller so it can
// supply the already-extracted option texts.
func questionText(ctx questionCtx) string {
	for _, strat := range questionStrategies {
		if q := mcq.CleanText(strat(ctx)); q != "" {
			return q
		}
	}
	return ""
}

// synthesizeQuestion builds the last-resort prompt from the option labels,
// or from the container's own leading text when no labels exist.
func synthesizeQuestion(ctx questionCtx, optionTexts []string) string {
	labels := make([]string, 0, len(optionTexts))
	for _, t := range optionTexts {
		if t != "" {
			labels = append(labels, t)
		}
	}
	if len(labels) > 0 {
		return "Question for options: " + strings.Join(labels, ", ")
	}
	if ctx.container != nil {
		if t := dom.TextDepth(ctx.container, ancestorTextDepth); t != "" {
			return mcq.Truncate(t, maxSynthesizedLen)
		}
	}
	return ""
}

func questionFromDataAttr(ctx questionCtx) string {
	if ctx.container == nil {
		return ""
	}
	return dom.Attr(ctx.container, "data-question")
}

func questionFromAria(ctx questionCtx) string {
	for _, n := range ctx.candidates() {
		if v := dom.Attr(n, "aria-label"); v != "" {
			return v
		}
		if id := dom.Attr(n, "aria-labelledby"); id != "" {
			if l := findByID(ctx.root, id); l != nil {
				return dom.Text(l)
			}
		}
	}
	return ""
}

// questionFromLabel finds a label[for] pointing at an ancestor of the
// group. Labels tied to the controls themselves carry option text, so the
// walk starts above them.
func questionFromLabel(ctx questionCtx) string {
	start := ctx.container
	if start == nil && len(ctx.controls) > 0 {
		start = ctx.controls[0].Parent
	}
	for cur := start; cur != nil; cur = cur.Parent {
		if id := dom.Attr(cur, "id"); id != "" {
			if l := dom.LabelFor(ctx.root, id); l != nil {
				if t := dom.Text(l); t != "" {
					return t
				}
			}
		}
		if cur == ctx.root {
			break
		}
	}
	return ""
}

func questionFromLegend(ctx questionCtx) string {
	var fs *html.Node
	if len(ctx.controls) > 0 {
		fs = dom.ClosestTag(ctx.controls[0], "fieldset")
	} else if ctx.container != nil {
		fs = dom.ClosestTag(ctx.container, "fieldset")
	}
	if fs == nil {
		return ""
	}
	for _, l := range dom.Elements(fs, "legend") {
		if t := dom.Text(l); t != "" {
			return t
		}
	}
	return ""
}

// questionFromHeadingAncestor walks up from the group looking for a
// heading or paragraph with substantive text. The first pass prefers text
// that reads like a question (long enough and carrying a question mark); a
// second pass settles for length alone.
func questionFromHeadingAncestor(ctx questionCtx) string {
	start := ctx.container
	if start == nil && len(ctx.controls) > 0 {
		start = ctx.controls[0].Parent
	}
	if start == nil {
		return ""
	}
	for _, requireMark := range []bool{true, false} {
		for cur := start; cur != nil; cur = cur.Parent {
			for _, h := range dom.ElementsLight(cur, "h1", "h2", "h3", "h4", "h5", "h6", "p", "legend") {
				t := dom.Text(h)
				if len(t) < minQuestionLen {
					continue
				}
				if requireMark && !strings.Contains(t, "?") {
					continue
				}
				return t
			}
			if cur == ctx.root {
				break
			}
		}
	}
	return ""
}

func questionFromClassContainer(ctx questionCtx) string {
	scope := ctx.container
	if scope == nil {
		scope = ctx.root
	}
	var found string
	dom.WalkLight(scope, func(n *html.Node) bool {
		if found != "" {
			return false
		}
		if n.Type == html.ElementNode && hasQuestionClass(n) {
			// Prompt-bearing node, not the whole container subtree.
			if t := dom.TextDepth(n, ancestorTextDepth); len(t) >= minQuestionLen {
				found = t
				return false
			}
		}
		return true
	})
	return found
}

func questionFromPrecedingSibling(ctx questionCtx) string {
	start := ctx.container
	if start == nil && len(ctx.controls) > 0 {
		start = ctx.controls[0].Parent
	}
	for cur := start; cur != nil && cur != ctx.root; cur = cur.Parent {
		for sib := dom.PrevElementSibling(cur); sib != nil; sib = dom.PrevElementSibling(sib) {
			if t := dom.Text(sib); len(t) >= minQuestionLen {
				return t
			}
		}
	}
	return ""
}

// candidates returns the nodes whose own attributes may label the group.
func (ctx questionCtx) candidates() []*html.Node {
	var out []*html.Node
	if ctx.container != nil {
		out = append(out, ctx.container)
	}
	out = append(out, ctx.controls...)
	return out
}

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && dom.Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}
