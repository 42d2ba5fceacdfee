package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an HTTP-facing failure: Message goes to the client, Err stays in logs.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, msg string, err error) *Error {
	return &Error{Status: status, Message: msg, Err: err}
}

func BadRequest(msg string) *Error       { return New(http.StatusBadRequest, msg, nil) }
func Unauthorized(msg string) *Error     { return New(http.StatusUnauthorized, msg, nil) }
func Forbidden(msg string) *Error        { return New(http.StatusForbidden, msg, nil) }
func NotFound(msg string) *Error         { return New(http.StatusNotFound, msg, nil) }
func MethodNotAllowed(msg string) *Error { return New(http.StatusMethodNotAllowed, msg, nil) }
func Conflict(msg string) *Error         { return New(http.StatusConflict, msg, nil) }

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// Body is the JSON error shape used by every router-originated failure.
func Body(status int, msg string) gin.H {
	return gin.H{"error": http.StatusText(status), "message": msg}
}

// Abort writes err and stops the handler chain. Non-*Error values become 500s.
func Abort(c *gin.Context, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = Internal(err)
	}
	if ae.Err != nil {
		_ = c.Error(ae.Err)
	}
	c.AbortWithStatusJSON(ae.Status, Body(ae.Status, ae.Message))
}
