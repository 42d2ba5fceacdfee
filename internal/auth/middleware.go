package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"review_app/internal/models"
)

const principalKey = "principal"

// Principal is the authenticated caller resolved from a valid session token.
type Principal struct {
	ID       int64
	Username string
	Email    string
	Role     models.Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// Resolve reads the session token from a Bearer Authorization header or the
// auth_token cookie and stores the principal on the context. It never aborts:
// a missing or invalid token just leaves the request anonymous, and an
// invalid cookie is cleared.
func Resolve(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		fromCookie := false
		if tokenStr == "" {
			if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
				tokenStr = cookie
				fromCookie = true
			}
		}
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := s.Verify(tokenStr)
		if err != nil {
			if fromCookie {
				s.ClearCookie(c)
			}
			c.Next()
			return
		}

		c.Set(principalKey, &Principal{
			ID:       claims.ID,
			Username: claims.Username,
			Email:    claims.Email,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// FromContext returns the resolved principal or nil for anonymous requests.
func FromContext(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
