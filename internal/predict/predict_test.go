package predict

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRenderPromptDefault(t *testing.T) {
	got := renderPrompt("", "What is the capital of France?", []string{"Paris", "Lisbon", "Madrid"})
	for _, want := range []string{
		"Question: What is the capital of France?",
		"1. Paris",
		"2. Lisbon",
		"3. Madrid",
		"Respond ONLY",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPromptCustomTemplate(t *testing.T) {
	got := renderPrompt("Q={{question}} O={{options}}", "Why?", []string{"a", "b"})
	if got != "Q=Why? O=1. a\n2. b" {
		t.Errorf("rendered = %q", got)
	}
}

type stubPredictor struct {
	resp Response
	err  error
}

func (s stubPredictor) Predict(context.Context, Request) (Response, error) {
	return s.resp, s.err
}

func TestAutoFallsThroughToFirstSuccess(t *testing.T) {
	auto := NewAuto(zerolog.Nop(),
		stubPredictor{err: errors.New("quota exceeded")},
		stubPredictor{resp: Response{Answer: "Paris", Provider: "gemini"}},
		stubPredictor{resp: Response{Answer: "never reached"}},
	)
	resp, err := auto.Predict(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if resp.Answer != "Paris" || resp.Provider != "gemini" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAutoAllFail(t *testing.T) {
	auto := NewAuto(zerolog.Nop(),
		stubPredictor{err: errors.New("one")},
		stubPredictor{err: errors.New("two")},
	)
	if _, err := auto.Predict(context.Background(), Request{}); err == nil {
		t.Fatal("want error when every provider fails")
	}
}

func TestAutoEmptyChain(t *testing.T) {
	if _, err := NewAuto(zerolog.Nop()).Predict(context.Background(), Request{}); err == nil {
		t.Fatal("want error for empty chain")
	}
}

func TestLocalPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"answer_index":1,"answer_text":"Lisbon"}`))
	}))
	defer srv.Close()

	resp, err := NewLocal(srv.URL).Predict(context.Background(), Request{
		Question: "Which city?",
		Options:  []string{"Paris", "Lisbon"},
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if resp.Answer != "Lisbon" || resp.Provider != "local" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestLocalPredictIndexOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"answer_index":0}`))
	}))
	defer srv.Close()

	resp, err := NewLocal(srv.URL).Predict(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if resp.Answer != "1" {
		t.Errorf("answer = %q, want 1-based index string", resp.Answer)
	}
}

func TestLocalPredictFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"could not determine answer"}`))
	}))
	defer srv.Close()

	if _, err := NewLocal(srv.URL).Predict(context.Background(), Request{}); err == nil {
		t.Fatal("want error on unsuccessful response")
	}
}

func TestImagePartEncoding(t *testing.T) {
	if _, err := imagePart(ProviderGemini, "!!!not base64"); err == nil {
		t.Error("want error for malformed base64")
	}
	if _, err := imagePart(ProviderGemini, "data:image/png;base64,aGVsbG8="); err != nil {
		t.Errorf("data URI rejected: %v", err)
	}
	if _, err := imagePart(ProviderOpenAI, "aGVsbG8="); err != nil {
		t.Errorf("openai raw base64 rejected: %v", err)
	}
}
