package models

import (
	"strings"
	"time"
)

// Role is a user's access level.
type Role string

// User roles.
const (
	RoleTechnician Role = "technician"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	return r == RoleTechnician || r == RoleManager || r == RoleAdmin
}

// User is an identity record. Deactivation flips IsActive and keeps the row.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Actor is the resolved identity of the current request.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the actor holds the admin role. Nil-safe.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Owns reports whether the actor's email matches the given ownership key
// (case-insensitive).
func (a *Actor) Owns(inspectorEmail string) bool {
	return a != nil && NormalizeEmail(a.Email) == NormalizeEmail(inspectorEmail)
}

// CreateUserRequest is the payload for creating a user. Admin only.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// Validate checks required fields on CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingUserName
	}

	if !ValidEmail(r.Email) {
		return ErrInvalidUserEmail
	}

	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingUserPhone
	}

	if !r.Role.Valid() {
		return ErrInvalidRole
	}

	return nil
}

// UpdateUserRequest is the payload for updating a user. Nil fields are left
// unchanged. Admin only.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

// Validate checks UpdateUserRequest fields.
func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrMissingUserName
	}

	if r.Phone != nil && strings.TrimSpace(*r.Phone) == "" {
		return ErrMissingUserPhone
	}

	if r.Role != nil && !r.Role.Valid() {
		return ErrInvalidRole
	}

	return nil
}
