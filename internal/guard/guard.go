// Package guard decides, per navigation, whether a request may render the
// view it asked for. The decision is a pure function of the session and the
// route's required role: no I/O, no side effects, so it can run on every
// request without adding latency.
package guard

import "github.com/capitalcare/care-console/internal/core/domain"

// Decision is the outcome of a guard check.
type Decision int

const (
	// Render lets the requested view through.
	Render Decision = iota
	// RedirectLogin sends the caller to the login entry point.
	RedirectLogin
)

// AnyRole marks a route that accepts any authenticated role.
const AnyRole = ""

// Decide applies the route authorization rule:
//
//	no session                         → RedirectLogin
//	requiredRole == AnyRole            → Render
//	session role != requiredRole       → RedirectLogin
//	otherwise                          → Render
//
// A wrong role deliberately lands on the login screen rather than a distinct
// forbidden page; the console has always collapsed the two outcomes and
// downstream screens rely on that.
func Decide(sess *domain.Session, requiredRole string) Decision {
	if !sess.Valid() {
		return RedirectLogin
	}
	if requiredRole == AnyRole {
		return Render
	}
	if sess.User.Role != requiredRole {
		return RedirectLogin
	}
	return Render
}
