package mcq

import "testing"

func TestCleanText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"A) Paris", "Paris"},
		{"b. Lisbon", "Lisbon"},
		{"3) Madrid", "Madrid"},
		{"• Rome", "Rome"},
		{"○ Berlin", "Berlin"},
		{"  What   is 2+2?  ", "What is 2+2?"},
		{"(Oslo)", "Oslo"},
		{"A) 3", "3"},
		{"", ""},
		{"  \t\n ", ""},
	}
	for _, c := range cases {
		if got := CleanText(c.in); got != c.want {
			t.Errorf("CleanText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsAnswerKeyArtifact(t *testing.T) {
	for _, s := range []string{"A", "B", "C", "D", "a", "d"} {
		if !IsAnswerKeyArtifact(s) {
			t.Errorf("expected %q to be an answer-key artifact", s)
		}
	}
	for _, s := range []string{"E", "AB", "1", "", "Paris"} {
		if IsAnswerKeyArtifact(s) {
			t.Errorf("did not expect %q to be an answer-key artifact", s)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"What is 2+2?", "what is 22?"},
		{"  Multiple   spaces\there ", "multiple spaces here"},
		{"Héllo, Wörld!", "héllo wörld"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKeyEquality(t *testing.T) {
	a := MCQ{Question: "What is the capital of France?", Options: []Option{{Text: "Paris"}, {Text: "Lisbon"}}}
	b := MCQ{Question: "what is the capital of   france?", Options: []Option{{Text: "PARIS!"}, {Text: " lisbon "}}}
	if Key(a) != Key(b) {
		t.Fatalf("keys differ: %q vs %q", Key(a), Key(b))
	}
	c := MCQ{Question: "What is the capital of France?", Options: []Option{{Text: "Paris"}, {Text: "Madrid"}}}
	if Key(a) == Key(c) {
		t.Fatal("distinct option sets must yield distinct keys")
	}
}

func TestValid(t *testing.T) {
	m := MCQ{Question: "q", Options: []Option{{Text: "a"}, {Text: "b"}}}
	if !m.Valid() {
		t.Fatal("two non-empty options should be valid")
	}
	m.Options = m.Options[:1]
	if m.Valid() {
		t.Fatal("one option must be invalid")
	}
	m.Options = []Option{{Text: "a"}, {Text: ""}}
	if m.Valid() {
		t.Fatal("empty option text must be invalid")
	}
}

func TestStatsAccuracy(t *testing.T) {
	s := Stats{Answered: 0, Correct: 0}
	s.RecomputeAccuracy()
	if s.Accuracy != 0 {
		t.Fatalf("accuracy with zero answered = %d, want 0", s.Accuracy)
	}
	s = Stats{Answered: 3, Correct: 2}
	s.RecomputeAccuracy()
	if s.Accuracy != 67 {
		t.Fatalf("accuracy = %d, want 67", s.Accuracy)
	}
}
