package scan

import (
	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// groupControls splits same-type controls into logical answer groups.
// Named controls group by their name attribute. Unnamed ones fall back to
// their nearest question container, and finally to a virtual container:
// the immediate parent shared by DOM-proximate controls.
func groupControls(controls []*html.Node) [][]*html.Node {
	var order []string
	named := map[string][]*html.Node{}
	var unnamed []*html.Node
	for _, c := range controls {
		name := dom.Attr(c, "name")
		if name == "" {
			unnamed = append(unnamed, c)
			continue
		}
		if _, ok := named[name]; !ok {
			order = append(order, name)
		}
		named[name] = append(named[name], c)
	}

	var groups [][]*html.Node
	for _, name := range order {
		groups = append(groups, named[name])
	}

	// Container-based fallback for controls without a semantic group.
	var keys []*html.Node
	byContainer := map[*html.Node][]*html.Node{}
	for _, c := range unnamed {
		holder := dom.Closest(c, isQuestionContainer)
		if holder == nil {
			holder = c.Parent // virtual container
		}
		if holder == nil {
			continue
		}
		if _, ok := byContainer[holder]; !ok {
			keys = append(keys, holder)
		}
		byContainer[holder] = append(byContainer[holder], c)
	}
	for _, k := range keys {
		groups = append(groups, byContainer[k])
	}
	return groups
}

// groupMCQ assembles one MCQ from a grouped control set, resolving the
// prompt through the fallback chain and each option label through the
// option chain. Returns ok=false when fewer than two options have text.
func groupMCQ(root *html.Node, controls []*html.Node, kind mcq.Kind, source string) (mcq.MCQ, bool) {
	if len(controls) < 2 {
		return mcq.MCQ{}, false
	}
	container := dom.Closest(controls[0], isQuestionContainer)
	ctx := questionCtx{root: root, container: container, controls: controls}

	var options []mcq.Option
	for _, c := range controls {
		if o, ok := controlOption(root, c); ok {
			options = append(options, o)
		}
	}
	if len(options) < 2 {
		return mcq.MCQ{}, false
	}

	q := questionText(ctx)
	if q == "" {
		texts := make([]string, len(options))
		for i, o := range options {
			texts[i] = o.Text
		}
		q = mcq.CleanText(synthesizeQuestion(ctx, texts))
	}
	if q == "" {
		return mcq.MCQ{}, false
	}

	return mcq.MCQ{
		Question: q,
		Options:  options,
		Kind:     kind,
		Answered: anyChecked(controls),
		Source:   source,
	}, true
}

// radioGroupsIn detects native radio groups under root (light DOM only).
func radioGroupsIn(root *html.Node, env *Env, source string) []mcq.MCQ {
	var out []mcq.MCQ
	radios := inputsOfType(root, "radio")
	for _, group := range groupControls(radios) {
		m, ok := groupMCQ(root, group, mcq.KindRadio, source)
		if !ok {
			continue
		}
		for _, c := range group {
			env.Claim(c)
		}
		out = append(out, m)
	}
	return out
}

// checkboxGroupsIn detects checkbox groups under root (light DOM only).
// Checkboxes rarely carry a shared name, so grouping leans on containers.
func checkboxGroupsIn(root *html.Node, env *Env, source string) []mcq.MCQ {
	var out []mcq.MCQ
	boxes := inputsOfType(root, "checkbox")

	var keys []*html.Node
	byContainer := map[*html.Node][]*html.Node{}
	for _, b := range boxes {
		holder := dom.Closest(b, isQuestionContainer)
		if holder == nil {
			holder = b.Parent
		}
		if holder == nil {
			continue
		}
		if _, ok := byContainer[holder]; !ok {
			keys = append(keys, holder)
		}
		byContainer[holder] = append(byContainer[holder], b)
	}

	for _, k := range keys {
		group := byContainer[k]
		m, ok := groupMCQ(root, group, mcq.KindCheckbox, source)
		if !ok {
			continue
		}
		for _, c := range group {
			env.Claim(c)
		}
		out = append(out, m)
	}
	return out
}

func inputsOfType(root *html.Node, inputType string) []*html.Node {
	var out []*html.Node
	dom.WalkLight(root, func(n *html.Node) bool {
		if dom.IsInput(n, inputType) {
			out = append(out, n)
		}
		return true
	})
	return out
}
