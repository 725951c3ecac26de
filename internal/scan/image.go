package scan

import (
	"golang.org/x/net/html"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// ImageScanner detects the two image-bearing shapes: options that are
// images (the caption becomes the option text) and an image-bearing prompt
// with ordinary text options.
type ImageScanner struct{}

func (ImageScanner) Name() string { return "image" }

func (ImageScanner) Scan(snap *dom.Snapshot, env *Env) []mcq.MCQ {
	if !env.Opts.ImageDetection {
		return nil
	}
	var out []mcq.MCQ
	out = append(out, imageOptionMCQs(snap.Root, env)...)
	out = append(out, imageQuestionMCQs(snap.Root, env)...)
	return out
}

// imageOptionMCQs handles containers whose options are images.
func imageOptionMCQs(root *html.Node, env *Env) []mcq.MCQ {
	imgs, err := dom.Find(root, ".option img, .choice img, li img, label img")
	if err != nil {
		return nil
	}
	var containers []*html.Node
	seen := map[*html.Node]bool{}
	for _, img := range imgs {
		c := dom.Closest(img, isQuestionContainer)
		if c == nil {
			c = dom.Closest(img, func(n *html.Node) bool { return hasQuestionClass(n) })
		}
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true
		containers = append(containers, c)
	}

	var out []mcq.MCQ
	for _, c := range containers {
		imgEls := dom.Elements(c, "img")
		if len(imgEls) < 2 {
			continue
		}
		var options []mcq.Option
		unclaimed := false
		for _, img := range imgEls {
			caption := mcq.CleanText(imageCaption(img))
			if caption == "" && img.Parent != nil {
				caption = mcq.CleanText(dom.TextDepth(img.Parent, ancestorTextDepth))
			}
			if caption == "" {
				continue
			}
			if !env.IsClaimed(img) {
				unclaimed = true
			}
			options = append(options, mcq.Option{
				Text:     caption,
				Ref:      mcq.Handle(dom.Path(img)),
				IsImage:  true,
				ImageSrc: dom.Attr(img, "src"),
			})
		}
		if len(options) < 2 || !unclaimed {
			continue
		}

		q := questionText(questionCtx{root: root, container: c})
		if q == "" {
			q = "Question with image options"
		}
		out = append(out, mcq.MCQ{
			Question: q,
			Options:  options,
			Kind:     mcq.KindImage,
			Source:   "image-options",
		})
	}
	return out
}

// imageQuestionMCQs handles a prompt rendered as an image with text
// options around it. The prediction layer attaches the image bytes to the
// model request, so the prompt records the source.
func imageQuestionMCQs(root *html.Node, env *Env) []mcq.MCQ {
	imgs, err := dom.Find(root, ".question img, .quiz-question img, .stem img")
	if err != nil {
		return nil
	}
	var out []mcq.MCQ
	seen := map[*html.Node]bool{}
	for _, img := range imgs {
		c := dom.Closest(img, isQuestionContainer)
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true

		spec := patternSpec{
			name:     "image-question",
			question: []string{"h1, h2, h3, h4, h5, h6, p, div.question, .question-text"},
			option:   `.option, .choice, li, label, input[type="radio"], input[type="checkbox"]`,
		}
		m, ok := containerMCQ(root, env, c, spec, "image-question")
		if !ok {
			continue
		}
		if m.Question == "" {
			m.Question = mcq.CleanText(dom.Attr(img, "alt"))
		}
		if m.Question == "" {
			m.Question = "Question with image"
		}
		m.Question = "[Image Question] " + m.Question
		m.Kind = mcq.KindImage
		m.QuestionImage = dom.Attr(img, "src")
		out = append(out, m)
	}
	return out
}
