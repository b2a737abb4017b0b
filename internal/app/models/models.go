package models

import "github.com/golang-jwt/jwt/v5"

// Role is the access level of a credential record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// DashboardPath returns the landing page for the role.
func (r Role) DashboardPath() string {
	if r == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/user/dashboard"
}

// User is a credential record. Usernames are unique and case-sensitive.
// PasswordHash is a bcrypt hash; plaintext never survives store construction.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
}

// SessionClaims is the payload of an issued session token.
type SessionClaims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Response is the JSON envelope of the API endpoints.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}
