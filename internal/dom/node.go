package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, even if empty. Boolean
// HTML attributes like checked/selected care about presence, not value.
func HasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with one of the given tag names.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return len(tags) == 0
}

// IsInput reports whether n is an <input> of the given type.
func IsInput(n *html.Node, inputType string) bool {
	return IsElement(n, "input") && strings.EqualFold(Attr(n, "type"), inputType)
}

// Walk visits n and its descendants depth-first in document order. The
// visitor returns false to prune the subtree below the current node.
func Walk(n *html.Node, visit func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}

// Elements collects every descendant element matching one of the tag names.
func Elements(root *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if IsElement(n, tags...) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// skipTextOf marks element subtrees whose text is never user-visible.
var skipTextOf = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Text returns the whitespace-collapsed visible text of the subtree.
func Text(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b, -1, 0)
	return collapse(b.String())
}

// TextDepth returns the subtree text limited to maxDepth levels below n.
// Caps runaway containment when a "container" turns out to be the page.
func TextDepth(n *html.Node, maxDepth int) string {
	var b strings.Builder
	collectText(n, &b, maxDepth, 0)
	return collapse(b.String())
}

// OwnText returns only the direct text children of n.
func OwnText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return collapse(b.String())
}

func collectText(n *html.Node, b *strings.Builder, maxDepth, depth int) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.ElementNode:
		if skipTextOf[n.Data] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	if maxDepth >= 0 && depth > maxDepth {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, maxDepth, depth+1)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Closest walks up from n (inclusive) to the first ancestor for which match
// returns true, or nil when none does.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && match(cur) {
			return cur
		}
	}
	return nil
}

// ClosestTag is Closest over a tag-name set.
func ClosestTag(n *html.Node, tags ...string) *html.Node {
	return Closest(n, func(e *html.Node) bool { return IsElement(e, tags...) })
}

// PrevElementSibling returns the nearest preceding element sibling.
func PrevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// NextText returns the text of the node immediately following n, when that
// node is a text node. Mirrors "label text to the right of the control".
func NextText(n *html.Node) string {
	if n.NextSibling != nil && n.NextSibling.Type == html.TextNode {
		return collapse(n.NextSibling.Data)
	}
	return ""
}

// HasClassToken reports whether the element's class attribute contains the
// exact token (space-separated comparison, not substring).
func HasClassToken(n *html.Node, token string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == token {
			return true
		}
	}
	return false
}

// ClassContains reports whether any class token contains the fragment.
// Matches selector patterns like [class*='math'].
func ClassContains(n *html.Node, fragment string) bool {
	return strings.Contains(Attr(n, "class"), fragment)
}

// LabelFor finds the <label for=id> element anywhere under root.
func LabelFor(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if IsElement(n, "label") && Attr(n, "for") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether desc is inside (or is) root.
func Contains(root, desc *html.Node) bool {
	for cur := desc; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}
