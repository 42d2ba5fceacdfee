package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected Internal to wrap cause")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if NotFound("gone").Error() != "gone" {
		t.Error("message should be used when no cause")
	}
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"typed", Conflict("Category already exists"), http.StatusConflict, "Category already exists"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Abort(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["message"] != tt.message || body["error"] != http.StatusText(tt.status) {
				t.Errorf("body = %v", body)
			}
			if !c.IsAborted() {
				t.Error("context not aborted")
			}
		})
	}
}
