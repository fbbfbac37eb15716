package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// RolePredicate decides whether a role may perform an operation.
type RolePredicate func(role string) bool

// AnyRole admits every authenticated role.
func AnyRole(role string) bool {
	return ValidRole(role)
}

// AdminOnly admits administrators exclusively.
func AdminOnly(role string) bool {
	return role == RoleAdmin
}

// User models an account that can authenticate against the API.
// PasswordHash never leaves the process: it is excluded from every JSON
// projection.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
