package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type RequestOption func(*http.Request)

// AJAX marks the request as coming from the frontend's XMLHttpRequest client.
func AJAX() RequestOption {
	return func(r *http.Request) { r.Header.Set("X-Requested-With", "XMLHttpRequest") }
}

func WithToken(token string) RequestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// MakeRequest serves a request against h. body is JSON-encoded unless it is
// already a string or nil.
func MakeRequest(t *testing.T, h http.Handler, method, path string, body any, opts ...RequestOption) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		r = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to decode JSON response: %v. Body: %s", err, w.Body.String())
	}
}

// AssertMessage checks the "message" field of a JSON error body.
func AssertMessage(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	var body map[string]any
	DecodeJSON(t, w, &body)
	if body["message"] != expected {
		t.Fatalf("Expected message %q, got %v", expected, body["message"])
	}
}
