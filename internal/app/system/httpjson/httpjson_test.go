package httpjson

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, Payload{"count": 3})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Fatal("success should be true")
	}
	if body["count"] != float64(3) {
		t.Fatalf("count = %v", body["count"])
	}
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusForbidden, "Access denied")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["message"] != "Access denied" {
		t.Fatalf("body = %v", body)
	}
}

func TestValidationFail(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFail(rec, []FieldError{{Field: "name", Message: "Name is required"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) != 1 {
		t.Fatalf("errors = %v", body["errors"])
	}
}

func TestInternal_HidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Internal(rec, zap.NewNop(), "create user", assertErr{})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Server error" {
		t.Fatalf("message = %v", body["message"])
	}
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Fatal("internal detail leaked into the response")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "secret detail" }

func TestDecodeBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Wheat"}`))
	rec := httptest.NewRecorder()
	if !DecodeBody(rec, r, &dst, 1<<20) {
		t.Fatal("valid body should decode")
	}
	if dst.Name != "Wheat" {
		t.Fatalf("name = %q", dst.Name)
	}
}

func TestDecodeBody_Malformed(t *testing.T) {
	var dst map[string]any
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	if DecodeBody(rec, r, &dst, 1<<20) {
		t.Fatal("malformed body should fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDecodeBody_TooLarge(t *testing.T) {
	var dst map[string]any
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 100)+`"}`))
	rec := httptest.NewRecorder()
	if DecodeBody(rec, r, &dst, 10) {
		t.Fatal("oversized body should fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
