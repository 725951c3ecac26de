package ocr

import (
	"regexp"
	"strings"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

var (
	interrogativeRe = regexp.MustCompile(`(?i)\b(what|which|when|where|why|how)\b`)
	optionLineRe    = regexp.MustCompile(`^[A-Za-z0-9][.)]\s+`)
)

const (
	// optionLookahead bounds how far below a question line options are
	// collected.
	optionLookahead = 10
	// lineTolerance is the vertical origin slack, in pixels, within which
	// consecutive words count as the same line.
	lineTolerance = 10
)

func isQuestionLine(s string) bool {
	return strings.HasSuffix(s, "?") || interrogativeRe.MatchString(s)
}

// ExtractText parses plain recognized text into MCQ candidates. A question
// line ends with "?" or contains an interrogative word; options are the
// enumerated lines ("A) ...", "1. ...") in the following window. Candidates
// need at least two options. Options carry no handle.
func ExtractText(text string) []mcq.MCQ {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	var out []mcq.MCQ
	for i := 0; i < len(lines); i++ {
		if !isQuestionLine(lines[i]) {
			continue
		}
		var opts []mcq.Option
		for j := i + 1; j < len(lines) && j < i+optionLookahead; j++ {
			if optionLineRe.MatchString(lines[j]) {
				opts = append(opts, mcq.Option{Text: mcq.CleanText(lines[j])})
				continue
			}
			if isQuestionLine(lines[j]) {
				break
			}
		}
		if len(opts) < 2 {
			continue
		}
		out = append(out, mcq.MCQ{
			Question: mcq.CleanText(lines[i]),
			Options:  opts,
			Kind:     mcq.KindOCR,
			Source:   "ocr",
		})
		// Skip past the consumed option lines so they are not re-examined
		// as questions.
		i += len(opts)
	}
	return out
}

// ExtractWords reconstructs lines from word boxes and applies the same
// heuristics as ExtractText. Each option carries a point handle at the
// center of its text run so a click target can be resolved on the live
// page.
func ExtractWords(words []Word) []mcq.MCQ {
	lines := assembleLines(words)
	var out []mcq.MCQ
	for i := 0; i < len(lines); i++ {
		if !isQuestionLine(lines[i].text) {
			continue
		}
		var opts []mcq.Option
		for j := i + 1; j < len(lines) && j < i+optionLookahead; j++ {
			if optionLineRe.MatchString(lines[j].text) {
				x, y := lines[j].box.Center()
				opts = append(opts, mcq.Option{
					Text: mcq.CleanText(lines[j].text),
					Ref:  mcq.PointRef(x, y),
				})
				continue
			}
			if isQuestionLine(lines[j].text) {
				break
			}
		}
		if len(opts) < 2 {
			continue
		}
		out = append(out, mcq.MCQ{
			Question: mcq.CleanText(lines[i].text),
			Options:  opts,
			Kind:     mcq.KindOCR,
			Source:   "ocr",
		})
		i += len(opts)
	}
	return out
}

type textLine struct {
	text string
	box  Box
}

// assembleLines groups consecutive words into lines by vertical origin.
// Words are assumed to arrive in reading order, as tesseract emits them.
func assembleLines(words []Word) []textLine {
	var (
		lines []textLine
		cur   []Word
	)
	lastTop := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		parts := make([]string, len(cur))
		box := cur[0].Box
		for i, w := range cur {
			parts[i] = w.Text
			if w.Box.X0 < box.X0 {
				box.X0 = w.Box.X0
			}
			if w.Box.Y0 < box.Y0 {
				box.Y0 = w.Box.Y0
			}
			if w.Box.X1 > box.X1 {
				box.X1 = w.Box.X1
			}
			if w.Box.Y1 > box.Y1 {
				box.Y1 = w.Box.Y1
			}
		}
		lines = append(lines, textLine{text: strings.Join(parts, " "), box: box})
		cur = nil
	}
	for _, w := range words {
		if len(cur) > 0 && abs(w.Box.Y0-lastTop) >= lineTolerance {
			flush()
		}
		cur = append(cur, w)
		lastTop = w.Box.Y0
	}
	flush()
	return lines
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
