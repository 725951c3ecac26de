package scan

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// mathSymbols are single glyphs whose presence suggests a math prompt.
const mathSymbols = "×÷≤≥≠∫∑∏√∞πθαβγδ"

// mathExprRe matches inline arithmetic like "12 + 7" or "3/4".
var mathExprRe = regexp.MustCompile(`\d+\s*[+\-×÷*/^=<>]\s*\d+`)

// MathScanner detects questions rendered with math markup (MathJax, KaTeX
// and friends) or containing arithmetic expressions. It reuses the generic
// container extraction; detection only decides which containers qualify.
type MathScanner struct{}

func (MathScanner) Name() string { return "math" }

func (MathScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	if !env.Opts.MathDetection {
		return nil
	}
	var out []mcq.MCQ
	seen := map[*html.Node]bool{}

	// Explicit math containers.
	mathEls, err := dom.Find(snap.Root, `.math, .equation, .MathJax, .katex, [class*="math"], [class*="equation"]`)
	if err == nil {
		for _, me := range mathEls {
			c := dom.Closest(me, isQuestionContainer)
			if c == nil || seen[c] {
				continue
			}
			seen[c] = true
			if m, ok := mathContainerMCQ(snap.Root, env, c); ok {
				out = append(out, m)
			}
		}
	}

	// Containers whose text carries math symbols or expressions.
	var containers []*html.Node
	dom.WalkLight(snap.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && isQuestionContainer(n) {
			containers = append(containers, n)
			return false
		}
		return true
	})
	for _, c := range containers {
		if seen[c] {
			continue
		}
		text := dom.Text(c)
		if !containsMath(text) {
			continue
		}
		seen[c] = true
		if m, ok := mathContainerMCQ(snap.Root, env, c); ok {
			out = append(out, m)
		}
	}
	return out
}

func containsMath(text string) bool {
	if strings.ContainsAny(text, mathSymbols) {
		return true
	}
	return mathExprRe.MatchString(text)
}

func mathContainerMCQ(root *html.Node, env *Env, c *html.Node) (mcq.MCQ, bool) {
	spec := patternSpec{
		name:     "math",
		question: []string{"h1, h2, h3, h4, h5, h6, p, div.question, .question-text"},
		option:   `.option, .choice, li, label, input[type="radio"], input[type="checkbox"]`,
	}
	m, ok := containerMCQ(root, env, c, spec, "math")
	if !ok {
		return mcq.MCQ{}, false
	}
	m.Question = "[Math Question] " + mcq.Truncate(m.Question, maxSynthesizedLen)
	return m, true
}
