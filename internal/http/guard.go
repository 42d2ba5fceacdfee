package httpserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"review_app/internal/apierr"
	"review_app/internal/auth"
	"review_app/internal/rbac"
)

func isAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// guard runs the fixed check sequence for rt: AJAX header, route policy,
// method, endpoint policy. The first failing check answers the request.
func guard(rt Route) gin.HandlerFunc {
	allowed := make([]string, 0, len(rt.Methods))
	for m := range rt.Methods {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return func(c *gin.Context) {
		if !rt.SkipAjax && !isAJAX(c.Request) {
			apierr.Abort(c, apierr.BadRequest("This endpoint requires AJAX request"))
			return
		}

		principal := auth.FromContext(c)
		if err := rt.Access.Check(principal); err != nil {
			apierr.Abort(c, err)
			return
		}

		endpoint, ok := rt.Methods[c.Request.Method]
		if !ok {
			c.Header("Allow", allow)
			apierr.Abort(c, apierr.MethodNotAllowed("Method not allowed"))
			return
		}

		if endpoint.Access != rbac.Inherit {
			if err := endpoint.Access.Check(principal); err != nil {
				apierr.Abort(c, err)
				return
			}
		}

		endpoint.Handler(c)
	}
}
