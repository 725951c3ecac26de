package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testService(t *testing.T) *Service {
	t.Helper()
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewService("test-secret", "admin", hash)
}

func TestLoginIssuesParsableToken(t *testing.T) {
	s := testService(t)
	tok, err := s.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	c, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "admin" {
		t.Fatalf("sub = %q", c.Sub)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := testService(t)
	if _, err := s.Login("admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("bad password: err = %v", err)
	}
	if _, err := s.Login("root", "hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("bad user: err = %v", err)
	}
}

func TestParseRejectsForeignToken(t *testing.T) {
	s := testService(t)
	other := NewService("other-secret", "admin", "")
	tok, err := other.IssueJWT("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Parse(tok); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestJWTMiddleware(t *testing.T) {
	s := testService(t)
	var hit bool
	h := JWTMiddleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}

	tok, _ := s.IssueJWT("admin")
	req := httptest.NewRequest("GET", "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !hit || rec.Code != http.StatusOK {
		t.Fatalf("valid token: hit=%v status=%d", hit, rec.Code)
	}
}

func TestBearerTokenFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/events?token=abc", nil)
	if got := bearerToken(req); got != "abc" {
		t.Fatalf("query token = %q", got)
	}
	req.Header.Set("Authorization", "Bearer xyz")
	if got := bearerToken(req); got != "xyz" {
		t.Fatalf("header wins: %q", got)
	}
	if strings.TrimSpace(bearerToken(httptest.NewRequest("GET", "/", nil))) != "" {
		t.Fatal("empty request should yield empty token")
	}
}
