// Package ocr recognizes text in page screenshots and derives
// multiple-choice candidates from it. Recognition is delegated to an
// Engine; the extraction heuristics are engine-agnostic.
package ocr

import "context"

// Box is a word bounding box in viewport pixel coordinates.
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Center returns the midpoint of the box.
func (b Box) Center() (x, y int) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Word is one recognized token with its position.
type Word struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// Options control a recognition run.
type Options struct {
	// Language is the recognition language code ("eng" when empty).
	Language string
	// WantWords requests word bounding boxes in addition to plain text.
	WantWords bool
}

// Result is the output of one recognition run. Words is nil unless
// requested. Confidence is the mean word confidence in [0,100], zero when
// no word data was produced.
type Result struct {
	Text       string
	Confidence float64
	Words      []Word
}

// Engine runs OCR over an encoded image.
type Engine interface {
	Recognize(ctx context.Context, image []byte, opts Options) (Result, error)
}
