package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/agent"
	"github.com/quizpilot/quizpilot/internal/auth"
	"github.com/quizpilot/quizpilot/internal/history"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

type fakeController struct {
	bus       *agent.Bus
	stats     mcq.Stats
	triggered int
}

func (f *fakeController) TriggerScan() { f.triggered++ }
func (f *fakeController) Stats() mcq.Stats {
	return f.stats
}
func (f *fakeController) MarkCorrect() mcq.Stats {
	f.stats.Correct++
	f.stats.RecomputeAccuracy()
	return f.stats
}
func (f *fakeController) Bus() *agent.Bus { return f.bus }

type fakeStore struct {
	attempts []history.Attempt
	lastLim  int
}

func (f *fakeStore) Save(ctx context.Context, a history.Attempt) (history.Attempt, error) {
	f.attempts = append(f.attempts, a)
	return a, nil
}

func (f *fakeStore) Recent(ctx context.Context, limit int) ([]history.Attempt, error) {
	f.lastLim = limit
	return f.attempts, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeController, *fakeStore, string) {
	t.Helper()
	hash, err := auth.HashPassword("pilot")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	authSvc := auth.NewService("test-secret", "admin", hash)
	ctrl := &fakeController{bus: agent.NewBus(), stats: mcq.Stats{Found: 2, Answered: 1}}
	store := &fakeStore{attempts: []history.Attempt{{ID: "a1", Question: "Which planet?"}}}

	srv := httptest.NewServer(NewRouter(authSvc, ctrl, store, nil, zerolog.Nop()))
	t.Cleanup(srv.Close)

	tok, err := authSvc.IssueJWT("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return srv, ctrl, store, tok
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestLoginReturnsToken(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"username":"admin","password":"pilot"}`)
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["access_token"] == "" {
		t.Fatal("empty access_token")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"username":"admin","password":"nope"}`)
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	for _, path := range []string{"/stats", "/attempts"} {
		resp := get(t, srv.URL+path, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s without token: status = %d", path, resp.StatusCode)
		}
	}
}

func TestStatsRoundTrip(t *testing.T) {
	srv, _, _, tok := newTestServer(t)

	resp := get(t, srv.URL+"/stats", tok)
	defer resp.Body.Close()
	var s mcq.Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Found != 2 || s.Answered != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestMarkCorrectUpdatesCounters(t *testing.T) {
	srv, ctrl, _, tok := newTestServer(t)

	req, _ := http.NewRequest("POST", srv.URL+"/stats/correct", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var s mcq.Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Correct != 1 || s.Accuracy != 100 {
		t.Fatalf("stats = %+v", s)
	}
	if ctrl.stats.Correct != 1 {
		t.Fatalf("controller not updated: %+v", ctrl.stats)
	}
}

func TestListAttempts(t *testing.T) {
	srv, _, store, tok := newTestServer(t)

	resp := get(t, srv.URL+"/attempts?limit=10", tok)
	defer resp.Body.Close()
	var list []history.Attempt
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Question != "Which planet?" {
		t.Fatalf("list = %+v", list)
	}
	if store.lastLim != 10 {
		t.Fatalf("limit = %d", store.lastLim)
	}
}

func TestTriggerScan(t *testing.T) {
	srv, ctrl, _, tok := newTestServer(t)

	req, _ := http.NewRequest("POST", srv.URL+"/scan", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ctrl.triggered != 1 {
		t.Fatalf("triggered = %d", ctrl.triggered)
	}
}

func TestEventsStream(t *testing.T) {
	srv, ctrl, _, tok := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Subscription registration races with Publish; retry briefly.
	deadline := time.Now().Add(2 * time.Second)
	go func() {
		for time.Now().Before(deadline) {
			ctrl.bus.Publish(agent.Event{Type: agent.EventScan, Found: 3})
			time.Sleep(20 * time.Millisecond)
		}
	}()

	conn.SetReadDeadline(deadline)
	var ev agent.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != agent.EventScan || ev.Found != 3 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestEventsRejectsBadToken(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial failure")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
