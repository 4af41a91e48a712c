package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("test-secret-0123456789", ttl)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("empty secret should be rejected")
	}
	if _, err := NewTokenManager("secret", 0); err == nil {
		t.Fatal("zero ttl should be rejected")
	}
}

func TestGenerateAndVerify(t *testing.T) {
	tm := newTestManager(t, time.Hour)
	token, err := tm.Generate("64f000000000000000000001")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	subject, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "64f000000000000000000001" {
		t.Fatalf("subject = %q", subject)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newTestManager(t, time.Hour)
	token, err := tm.Generate("64f000000000000000000001")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	other, err := NewTokenManager("a-different-secret-value", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong-secret verify should fail with ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := newTestManager(t, time.Nanosecond)
	token, err := tm.Generate("64f000000000000000000001")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tm.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired verify should fail with ErrTokenExpired, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := newTestManager(t, time.Hour)
	if _, err := tm.Verify("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage verify should fail with ErrTokenInvalid, got %v", err)
	}
	if _, err := tm.Verify(""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("empty verify should fail with ErrTokenMissing, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := BearerToken(""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("empty header: %v", err)
	}
	if _, err := BearerToken("Basic abc"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("non-bearer header: %v", err)
	}
	if _, err := BearerToken("Bearer "); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("bearer without token: %v", err)
	}
	if _, err := BearerToken("Bearer   "); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("bearer with only whitespace: %v", err)
	}
	if _, err := BearerToken("Bearer"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("bare scheme without separator: %v", err)
	}
	token, err := BearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("got %q, %v", token, err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("sugarcane2024")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "sugarcane2024") {
		t.Fatal("correct password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password should not verify")
	}
}
