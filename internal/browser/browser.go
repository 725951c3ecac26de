// Package browser is the boundary to the live page. Scanners never touch
// it; they work on snapshots, and the orchestrator maps detection handles
// back through a Page to act on the real document.
package browser

import (
	"context"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// Page drives one open document.
type Page interface {
	// Snapshot serializes the current document, with open shadow roots
	// inlined as declarative templates, and parses it.
	Snapshot(ctx context.Context) (*dom.Snapshot, error)
	// Click activates the element a handle points at.
	Click(ctx context.Context, path mcq.Handle) error
	// SelectIndex sets a select element's selection and fires a change
	// event, as a user picking the entry would.
	SelectIndex(ctx context.Context, path mcq.Handle, idx int) error
	// ClickPoint activates whatever element sits at a viewport point.
	ClickPoint(ctx context.Context, x, y int) error
	// CaptureViewport screenshots the visible area as PNG.
	CaptureViewport(ctx context.Context) ([]byte, error)
	// FetchImageData loads an image URL in the page and returns it as a
	// base64 data URI.
	FetchImageData(ctx context.Context, src string) (string, error)
	// WatchMutations emits a signal whenever the document changed since
	// the last poll. The channel closes when ctx ends. Signals are
	// coalesced; a slow consumer sees at most one pending.
	WatchMutations(ctx context.Context) (<-chan struct{}, error)
}
