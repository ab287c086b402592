package testutil

import (
	"net/http"

	"github.com/dalemusser/stratahandbook/internal/app/system/auth"
)

// TestUser is the signed-in identity a handler test runs as.
type TestUser struct {
	Name  string
	Email string
	Role  string
}

// AdminUser is listed in admin_emails and may edit.
func AdminUser() TestUser {
	return TestUser{Name: "편집 관리자", Email: "admin@example.com", Role: auth.RoleAdmin}
}

// MemberUser is signed in from the allowed domain but read-only.
func MemberUser() TestUser {
	return TestUser{Name: "신규 입사자", Email: "member@example.com", Role: auth.RoleMember}
}

// WithUser puts user in the request context the way the session middleware
// would after a successful login.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}
