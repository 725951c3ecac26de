package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Find evaluates a CSS selector under root. Invalid selector syntax is an
// error the caller is expected to log and skip; it must never panic, since
// custom selectors come from user configuration.
func Find(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return sel.MatchAll(root), nil
}

// FindFirst returns the first match of the selector, or nil.
func FindFirst(root *html.Node, selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return sel.MatchFirst(root), nil
}

// Matches tests a single node against a CSS selector.
func Matches(n *html.Node, selector string) (bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return sel.Match(n), nil
}

// ShadowSeparator joins path segments that cross a shadow-root boundary.
// The browser layer resolves it by descending through element.shadowRoot.
const ShadowSeparator = " >>> "

// Path builds a stable CSS path for n: tag:nth-of-type steps from the
// nearest root (document or shadow root) down to n. Paths crossing shadow
// boundaries carry the host path and the in-root path separated by
// ShadowSeparator. The result stays valid as long as the page structure
// around n does not change, i.e. for the lifetime of one scan pass.
func Path(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	var steps []string
	cur := n
	for cur != nil && cur.Type == html.ElementNode {
		steps = append([]string{step(cur)}, steps...)
		parent := cur.Parent
		if parent != nil && IsShadowRoot(parent) {
			// Segment ends at the shadow boundary; prefix with the host path.
			host := parent.Parent
			return Path(host) + ShadowSeparator + strings.Join(steps, " > ")
		}
		cur = parent
	}
	return strings.Join(steps, " > ")
}

func step(n *html.Node) string {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			idx++
		}
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", n.Data, idx)
}

// IsShadowRoot reports whether n is an inlined shadow root, i.e. a
// declarative <template shadowrootmode="..."> produced by the snapshotter.
func IsShadowRoot(n *html.Node) bool {
	return IsElement(n, "template") && HasAttr(n, "shadowrootmode")
}

// WalkLight is Walk restricted to the light DOM: inlined shadow roots are
// pruned. Regular scanners use it so shadow support stays additive instead
// of every scanner double-reporting shadow controls.
func WalkLight(n *html.Node, visit func(*html.Node) bool) {
	Walk(n, func(e *html.Node) bool {
		// Prune roots below the start node; the start node itself may be a
		// shadow root being scanned on its own.
		if e != n && IsShadowRoot(e) {
			return false
		}
		return visit(e)
	})
}

// ElementsLight is Elements over the light DOM only.
func ElementsLight(root *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	WalkLight(root, func(n *html.Node) bool {
		if IsElement(n, tags...) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ShadowRoots collects every inlined shadow root under root, including
// roots nested inside other roots.
func ShadowRoots(root *html.Node) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if IsShadowRoot(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
