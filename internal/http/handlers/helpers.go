package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/auth"
)

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name, label string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierr.BadRequest("Missing " + label + " ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

// mustPrincipal is for handlers behind an authenticated or admin guard.
func mustPrincipal(c *gin.Context) (*auth.Principal, error) {
	p := auth.FromContext(c)
	if p == nil {
		return nil, apierr.Unauthorized("Authentication required")
	}
	return p, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(msg)
	}
	return err
}

func queryInt(c *gin.Context, key string, def, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

func likePattern(term string) string {
	return "%" + term + "%"
}
