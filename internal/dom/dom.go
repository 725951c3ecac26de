// Package dom models a point-in-time snapshot of a page as a parsed HTML
// tree and provides the traversal and selector helpers the scanners build
// on. Live shadow roots are expected to be inlined by the snapshot producer
// as declarative <template shadowrootmode> subtrees, which keeps shadow
// handling orthogonal to the regular tree walk.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Snapshot is one parsed page capture. Node handles taken from a snapshot
// are only meaningful against the page state the snapshot was taken from.
type Snapshot struct {
	Root *html.Node
	URL  string
}

// Parse builds a snapshot from serialized HTML.
func Parse(htmlText, url string) (*Snapshot, error) {
	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil, err
	}
	return &Snapshot{Root: root, URL: url}, nil
}

// MustParse is Parse for fixtures that are known-good. html.Parse almost
// never fails on string input, but tests should not have to thread errors.
func MustParse(htmlText string) *Snapshot {
	s, err := Parse(htmlText, "")
	if err != nil {
		panic(err)
	}
	return s
}
