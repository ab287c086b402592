// internal/app/system/auth/roles.go
package auth

import (
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/normalize"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// RoleResolver maps a signed-in address to a role. An empty result means
// the address may not hold a session.
type RoleResolver func(email string) string

// AdminList resolves admin_emails to RoleAdmin and every other address in
// domain to RoleMember. An empty domain admits any address.
func AdminList(admins []string, domain string) RoleResolver {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if a = normalize.Email(a); a != "" {
			set[a] = struct{}{}
		}
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	return func(email string) string {
		email = normalize.Email(email)
		switch {
		case email == "":
			return ""
		case domain != "" && !InDomain(email, domain):
			return ""
		}
		if _, ok := set[email]; ok {
			return RoleAdmin
		}
		return RoleMember
	}
}

// InDomain reports whether email belongs to domain exactly (no subdomains).
func InDomain(email, domain string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.EqualFold(email[at+1:], strings.TrimSpace(domain))
}

// SessionUser is the signed-in user. Email is the identity recorded in the
// edit log.
type SessionUser struct {
	Email string
	Name  string
	Role  string
}

// IsAdmin reports whether the user may edit.
func (u *SessionUser) IsAdmin() bool {
	return u != nil && normalize.Role(u.Role) == RoleAdmin
}

// DisplayName returns the name, falling back to the e-mail address.
func (u *SessionUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
