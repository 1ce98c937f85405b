package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_PerIP(t *testing.T) {
	l := NewRateLimiter(1, 2)
	fixed := time.Date(2024, 5, 18, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := call("10.0.0.1:5000"); got != http.StatusNoContent {
		t.Fatalf("first request: expected 204, got %d", got)
	}
	if got := call("10.0.0.1:5001"); got != http.StatusNoContent {
		t.Fatalf("burst request: expected 204, got %d", got)
	}
	if got := call("10.0.0.1:5002"); got != http.StatusTooManyRequests {
		t.Fatalf("over burst: expected 429, got %d", got)
	}
	if got := call("10.0.0.2:5000"); got != http.StatusNoContent {
		t.Fatalf("other ip should not be limited, got %d", got)
	}

	fixed = fixed.Add(time.Second)
	if got := call("10.0.0.1:5003"); got != http.StatusNoContent {
		t.Fatalf("after refill: expected 204, got %d", got)
	}
}

func TestRateLimiter_PurgesIdleVisitors(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Date(2024, 5, 18, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.get("10.0.0.1")
	now = now.Add(10 * time.Minute)
	l.get("10.0.0.2")

	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Fatalf("idle visitor should have been purged")
	}
	if len(l.visitors) != 1 {
		t.Fatalf("expected 1 visitor, got %d", len(l.visitors))
	}
}
