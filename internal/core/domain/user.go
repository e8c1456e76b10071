package domain

import "strings"

// Role values as issued by the brokerage core API (`tipo_usuario`).
const (
	RoleAdmin    = "admin"
	RoleEmployee = "empleado"
	RoleClient   = "cliente"
)

// NormalizeRole maps a raw role string to one of the canonical role
// constants. Matching is case-insensitive and accepts the English
// aliases the legacy portal used. Unknown values normalize to the
// least-privileged role.
func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case RoleAdmin, "administrator", "administrador":
		return RoleAdmin
	case RoleEmployee, "employee", "empleada":
		return RoleEmployee
	default:
		return RoleClient
	}
}

// UserProfile is the minimal identity carried by a session. It is
// derived once from the core API login response and treated as an
// immutable snapshot afterwards.
type UserProfile struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
}

// NewUserProfile builds a profile from a login response, normalizing
// the role and defaulting the display name to the local part of the
// email when the backend did not provide one.
func NewUserProfile(email, rawRole, displayName string) UserProfile {
	if displayName == "" {
		displayName = email
		if i := strings.IndexByte(email, '@'); i > 0 {
			displayName = email[:i]
		}
	}
	return UserProfile{
		Email:       email,
		Role:        NormalizeRole(rawRole),
		DisplayName: displayName,
	}
}
