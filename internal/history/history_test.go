package history

import (
	"context"
	"fmt"
	"testing"
)

func openTestStore(t *testing.T, maxItems int) *SQLStore {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db, maxItems)
}

func TestSaveAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 10)

	saved, err := s.Save(ctx, Attempt{
		URL:           "https://quiz.example/geo",
		Question:      "What is the capital of France?",
		Options:       []string{"Paris", "Lisbon", "Madrid"},
		Answer:        "Paris",
		MatchedOption: "Paris",
		MatchTier:     "exact",
		Kind:          "radio",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Errorf("Save did not assign identity: %+v", saved)
	}

	got, err := s.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("attempts = %d, want 1", len(got))
	}
	a := got[0]
	if a.ID != saved.ID || a.Question != saved.Question || a.MatchTier != "exact" {
		t.Errorf("round trip mismatch: %+v", a)
	}
	if len(a.Options) != 3 || a.Options[0] != "Paris" {
		t.Errorf("options = %v", a.Options)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 3)

	for i := 0; i < 5; i++ {
		_, err := s.Save(ctx, Attempt{
			Question: fmt.Sprintf("question %d", i),
			Options:  []string{"a", "b"},
			Answer:   "a",
		})
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("attempts after prune = %d, want 3", len(got))
	}
	if got[0].Question != "question 4" || got[2].Question != "question 2" {
		t.Errorf("kept wrong rows: %q .. %q", got[0].Question, got[2].Question)
	}
}

func TestRecentLimitClamp(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 2)

	for i := 0; i < 2; i++ {
		if _, err := s.Save(ctx, Attempt{Question: "q", Options: []string{"a", "b"}, Answer: "a"}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	got, err := s.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("attempts = %d, want clamp to cap", len(got))
	}
}
