package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAllow_WithinLimit(t *testing.T) {
	l := New(3, time.Minute)
	defer l.Stop()
	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request above the limit should be denied")
	}
}

func TestAllow_KeysIndependent(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("second key should have its own window")
	}
}

func TestAllow_WindowReset(t *testing.T) {
	l := New(1, 20*time.Millisecond)
	defer l.Stop()
	if !l.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second request inside the window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("10.0.0.1") {
		t.Fatal("request after the window should be allowed again")
	}
}

func TestMiddleware_TooManyRequests(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Too many requests") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestStop_EndsCleanup(t *testing.T) {
	l := New(1, time.Minute)
	l.Stop()
	// Idempotent, and Allow keeps working after the cleanup loop ends.
	l.Stop()
	if !l.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed after Stop")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:4321"
	if ip := ClientIP(r); ip != "10.0.0.9" {
		t.Fatalf("remote addr ip = %q", ip)
	}

	r.Header.Set("X-Real-IP", "172.16.0.5")
	if ip := ClientIP(r); ip != "172.16.0.5" {
		t.Fatalf("x-real-ip = %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.10, 172.16.0.5")
	if ip := ClientIP(r); ip != "203.0.113.10" {
		t.Fatalf("x-forwarded-for = %q", ip)
	}
}
