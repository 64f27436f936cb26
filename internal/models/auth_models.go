package models

import "time"

// Role names carried in access tokens.
const (
	RoleSuperAdmin   = "SUPERADMIN"
	RoleReceptionist = "RECEPTIONIST"
)

// Account is a configured login. PasswordHash is a bcrypt hash and is never serialized.
type Account struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

// SessionUser is the authenticated principal derived from a validated token.
type SessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Credentials for login request
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
}
