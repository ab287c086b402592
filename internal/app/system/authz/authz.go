// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
)

// RoleVisitor is reported for requests without a usable session.
const RoleVisitor = "visitor"

// Viewer is who is looking at a page. The handbook is public, so the zero
// Viewer (a visitor) is normal.
type Viewer struct {
	Email string
	Name  string
	Role  string
}

// From reads the viewer from the request. A session user without an
// address fails closed to a visitor.
func From(r *http.Request) Viewer {
	u, ok := auth.CurrentUser(r)
	if !ok || strings.TrimSpace(u.Email) == "" {
		return Viewer{Role: RoleVisitor}
	}
	return Viewer{Email: u.Email, Name: u.Name, Role: normalize.Role(u.Role)}
}

// SignedIn reports whether the viewer has a session.
func (v Viewer) SignedIn() bool { return v.Email != "" }

// CanEdit reports whether the viewer may change handbook content and read
// the edit log.
func (v Viewer) CanEdit() bool { return v.SignedIn() && v.Role == auth.RoleAdmin }

// IsAdmin is shorthand for From(r).CanEdit().
func IsAdmin(r *http.Request) bool { return From(r).CanEdit() }
