package scan

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// optionText extracts the human-readable label for one control, following a
// fixed priority chain. root is the search scope (document or shadow root);
// the result is already cleaned and may be empty when nothing labels the
// control.
func optionText(root, control *html.Node) string {
	chain := []func(*html.Node, *html.Node) string{
		optionFromLabelFor,
		optionFromWrappingLabel,
		optionFromSiblingLabel,
		optionFromAria,
		optionFromValue,
		optionFromAncestorText,
		optionFromNextText,
	}
	for _, step := range chain {
		if t := mcq.CleanText(step(root, control)); t != "" {
			return t
		}
	}
	return ""
}

func optionFromLabelFor(root, control *html.Node) string {
	if l := dom.LabelFor(root, dom.Attr(control, "id")); l != nil {
		return dom.Text(l)
	}
	return ""
}

// optionFromWrappingLabel handles <label><input ...> Four</label>: the
// label text minus the control's own value text.
func optionFromWrappingLabel(_, control *html.Node) string {
	l := dom.ClosestTag(control, "label")
	if l == nil {
		return ""
	}
	t := dom.Text(l)
	if v := dom.Attr(control, "value"); v != "" {
		t = strings.Replace(t, v, "", 1)
	}
	return t
}

func optionFromSiblingLabel(_, control *html.Node) string {
	if control.Parent == nil {
		return ""
	}
	for sib := control.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib != control && dom.IsElement(sib, "label") {
			return dom.Text(sib)
		}
	}
	return ""
}

func optionFromAria(_, control *html.Node) string {
	if v := dom.Attr(control, "aria-label"); v != "" {
		return v
	}
	return dom.Attr(control, "title")
}

func optionFromValue(_, control *html.Node) string {
	return dom.Attr(control, "value")
}

func optionFromAncestorText(_, control *html.Node) string {
	if control.Parent == nil {
		return ""
	}
	return dom.TextDepth(control.Parent, ancestorTextDepth)
}

func optionFromNextText(_, control *html.Node) string {
	return dom.NextText(control)
}

// imageCaption derives a label for an image option: alt text first, then
// the filename from the source path.
func imageCaption(img *html.Node) string {
	if alt := strings.TrimSpace(dom.Attr(img, "alt")); alt != "" {
		return alt
	}
	src := dom.Attr(img, "src")
	if src == "" {
		return ""
	}
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		src = src[i+1:]
	}
	if i := strings.IndexByte(src, '?'); i >= 0 {
		src = src[:i]
	}
	return src
}

// controlOption adapts one control into the shared Option shape.
func controlOption(root, control *html.Node) (mcq.Option, bool) {
	t := optionText(root, control)
	if t == "" {
		return mcq.Option{}, false
	}
	return mcq.Option{Text: t, Ref: mcq.Handle(dom.Path(control))}, true
}
