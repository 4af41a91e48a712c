// internal/app/system/httpjson/httpjson.go
//
// Package httpjson owns the response envelope used by every handler:
// {success:true, ...} on success, {success:false, message} on failure, and
// {success:false, errors:[...]} for itemized validation failures.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Payload is a free-form success body merged with {"success": true}.
type Payload map[string]any

// FieldError is a single validation failure for one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a success envelope with the given status and payload fields.
func OK(w http.ResponseWriter, status int, payload Payload) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	write(w, status, body)
}

// Fail writes {success:false, message} with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// ValidationFail writes the itemized 400 envelope for bad input.
func ValidationFail(w http.ResponseWriter, errs []FieldError) {
	write(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"errors":  errs,
	})
}

// Internal logs the underlying error and writes a generic 500. Internal
// detail never reaches the response body.
func Internal(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, zap.Error(err))
	}
	Fail(w, http.StatusInternalServerError, "Server error")
}

// NotFound writes the standard 404 envelope.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeBody decodes a JSON request body into dst, limiting how much it will
// read. Returns false after writing a 400 when the body is malformed.
func DecodeBody(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		Fail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
