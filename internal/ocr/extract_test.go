package ocr

import (
	"reflect"
	"testing"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

func TestExtractText(t *testing.T) {
	text := "What is 2+2?\nA) 3\nB) 4\nC) 5\nRandom trailing line"
	got := ExtractText(text)
	if len(got) != 1 {
		t.Fatalf("mcqs = %d, want 1", len(got))
	}
	m := got[0]
	if m.Question != "What is 2+2?" {
		t.Errorf("question = %q", m.Question)
	}
	if want := []string{"3", "4", "5"}; !reflect.DeepEqual(m.OptionTexts(), want) {
		t.Errorf("options = %v, want %v", m.OptionTexts(), want)
	}
	if m.Kind != mcq.KindOCR {
		t.Errorf("kind = %q", m.Kind)
	}
	for _, o := range m.Options {
		if o.Ref != "" {
			t.Errorf("plain-text option carries handle %q", o.Ref)
		}
	}
}

func TestExtractTextSkipsConsumedOptions(t *testing.T) {
	text := "Which planet is red?\n" +
		"A) Mars\n" +
		"B) Venus\n" +
		"Which gas do plants absorb?\n" +
		"1. Oxygen\n" +
		"2. Carbon dioxide"
	got := ExtractText(text)
	if len(got) != 2 {
		t.Fatalf("mcqs = %d, want 2", len(got))
	}
	if got[0].Question != "Which planet is red?" || got[1].Question != "Which gas do plants absorb?" {
		t.Errorf("questions = %q, %q", got[0].Question, got[1].Question)
	}
	if want := []string{"Oxygen", "Carbon dioxide"}; !reflect.DeepEqual(got[1].OptionTexts(), want) {
		t.Errorf("second options = %v, want %v", got[1].OptionTexts(), want)
	}
}

func TestExtractTextRejectsSingleOption(t *testing.T) {
	if got := ExtractText("What is the capital?\nA) Paris\nplain prose"); len(got) != 0 {
		t.Fatalf("mcqs = %d, want 0", len(got))
	}
	if got := ExtractText(""); len(got) != 0 {
		t.Fatalf("empty input mcqs = %d, want 0", len(got))
	}
}

func TestExtractWords(t *testing.T) {
	words := []Word{
		{Text: "Which", Box: Box{X0: 10, Y0: 10, X1: 60, Y1: 24}},
		{Text: "color?", Box: Box{X0: 70, Y0: 10, X1: 130, Y1: 24}},
		{Text: "1)", Box: Box{X0: 10, Y0: 40, X1: 30, Y1: 55}},
		{Text: "Red", Box: Box{X0: 40, Y0: 42, X1: 80, Y1: 55}},
		{Text: "2)", Box: Box{X0: 10, Y0: 70, X1: 30, Y1: 85}},
		{Text: "Blue", Box: Box{X0: 40, Y0: 70, X1: 90, Y1: 85}},
	}
	got := ExtractWords(words)
	if len(got) != 1 {
		t.Fatalf("mcqs = %d, want 1", len(got))
	}
	m := got[0]
	if m.Question != "Which color?" {
		t.Errorf("question = %q", m.Question)
	}
	if want := []string{"Red", "Blue"}; !reflect.DeepEqual(m.OptionTexts(), want) {
		t.Errorf("options = %v, want %v", m.OptionTexts(), want)
	}
	x, y, ok := mcq.ParsePointRef(m.Options[0].Ref)
	if !ok {
		t.Fatalf("first option ref %q is not a point handle", m.Options[0].Ref)
	}
	if x != 45 || y != 47 {
		t.Errorf("first option center = (%d,%d), want (45,47)", x, y)
	}
	if _, _, ok := mcq.ParsePointRef(m.Options[1].Ref); !ok {
		t.Errorf("second option ref %q is not a point handle", m.Options[1].Ref)
	}
}

func TestAssembleLinesTolerance(t *testing.T) {
	words := []Word{
		{Text: "a", Box: Box{Y0: 100}},
		{Text: "b", Box: Box{Y0: 108}}, // within tolerance, same line
		{Text: "c", Box: Box{Y0: 118}}, // 10px from previous, new line
	}
	lines := assembleLines(words)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].text != "a b" || lines[1].text != "c" {
		t.Errorf("lines = %q, %q", lines[0].text, lines[1].text)
	}
}

func TestParseTSV(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t640\t480\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t10\t20\t50\t14\t96\tWhat\n" +
		"5\t1\t1\t1\t1\t2\t70\t20\t30\t14\t88\tis\n" +
		"5\t1\t1\t1\t1\t3\t110\t20\t20\t14\t-1\t\n"
	words, conf := parseTSV(tsv)
	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	if words[0].Text != "What" || words[0].Box != (Box{X0: 10, Y0: 20, X1: 60, Y1: 34}) {
		t.Errorf("first word = %+v", words[0])
	}
	if conf != 92 {
		t.Errorf("confidence = %v, want 92", conf)
	}
}

func TestParsePointRefRejectsGarbage(t *testing.T) {
	for _, h := range []mcq.Handle{"", "div:nth-of-type(1)", "point:", "point:1", "point:a,b"} {
		if _, _, ok := mcq.ParsePointRef(h); ok {
			t.Errorf("ParsePointRef(%q) accepted", h)
		}
	}
}
