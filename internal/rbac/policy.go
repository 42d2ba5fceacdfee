package rbac

import (
	"review_app/internal/apierr"
	"review_app/internal/auth"
)

// Policy is an access requirement attached to a route or a single method of a route.
type Policy int

const (
	// Inherit means "same as the route"; only meaningful on endpoints.
	Inherit Policy = iota
	Public
	Guest
	Authenticated
	Admin
)

func (p Policy) String() string {
	switch p {
	case Public:
		return "public"
	case Guest:
		return "guest"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "inherit"
	}
}

// Check returns nil when p admits principal, otherwise the rejection to send.
// A missing session is always reported before a missing role.
func (p Policy) Check(principal *auth.Principal) *apierr.Error {
	switch p {
	case Guest:
		if principal != nil {
			return apierr.BadRequest("Already logged in")
		}
	case Authenticated:
		if principal == nil {
			return apierr.Unauthorized("Authentication required")
		}
	case Admin:
		if principal == nil {
			return apierr.Unauthorized("Authentication required")
		}
		if !principal.IsAdmin() {
			return apierr.Forbidden("Admin access required")
		}
	}
	return nil
}
