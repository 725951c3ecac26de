// Package mcq defines the shared data model for detected multiple-choice
// questions: options, question candidates, detection keys and session stats.
package mcq

// Kind records which family of scanner produced an MCQ. Downstream handling
// (click vs. select-index) keys off it.
type Kind string

const (
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
	KindList     Kind = "list"
	KindImage    Kind = "image"
	KindOCR      Kind = "ocr"
	KindCustom   Kind = "custom"
)

// Handle is an opaque reference to a live UI control, expressed as a CSS
// path resolvable in the page the snapshot was taken from. Empty for
// detections with no backing element (e.g. pure OCR hits).
type Handle string

// Option is one selectable choice of an MCQ.
type Option struct {
	// Text is the cleaned, human-readable label. Always non-empty for
	// options that survive a scanner.
	Text string `json:"text"`
	// Ref points at the control to activate. Borrowed for the lifetime of
	// one scan pass; never stored across passes.
	Ref Handle `json:"ref,omitempty"`
	// IsImage marks options whose content is an image; Text then holds a
	// derived caption (alt text or filename).
	IsImage bool `json:"is_image,omitempty"`
	// ImageSrc is the source URL for image options.
	ImageSrc string `json:"image_src,omitempty"`
}

// MCQ is one candidate multiple-choice question found on the page.
// Instances are created fresh on every scan pass and carry no identity
// across passes beyond their detection key.
type MCQ struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`
	Kind     Kind     `json:"kind"`
	// Answered is best-effort: true when the underlying control already
	// reflects a selection. OCR/list/custom detections default to false.
	Answered bool `json:"answered"`
	// ResolvedAnswer is filled by the orchestrator after a successful
	// prediction round trip.
	ResolvedAnswer string `json:"resolved_answer,omitempty"`
	// Source names the scanner that produced the candidate, for diagnostics.
	Source string `json:"source,omitempty"`
	// QuestionImage is the src of an image attached to the prompt, if any.
	QuestionImage string `json:"question_image,omitempty"`
}

// OptionTexts returns the option labels in DOM order.
func (m *MCQ) OptionTexts() []string {
	out := make([]string, len(m.Options))
	for i, o := range m.Options {
		out[i] = o.Text
	}
	return out
}

// Valid reports whether the candidate meets the minimum shape for an MCQ:
// at least two options, all with non-empty text.
func (m *MCQ) Valid() bool {
	if len(m.Options) < 2 {
		return false
	}
	for _, o := range m.Options {
		if o.Text == "" {
			return false
		}
	}
	return true
}

// Stats are the aggregate session counters, mutated only by the agent
// (single event loop) and read by external UIs through the control API.
type Stats struct {
	Found    int `json:"found"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"` // percentage, rounded
}

// RecomputeAccuracy refreshes Accuracy as round(100*correct/answered).
func (s *Stats) RecomputeAccuracy() {
	if s.Answered == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = int(float64(s.Correct)/float64(s.Answered)*100 + 0.5)
}
