package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// Role represents a user's access level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// User represents an authenticated account. A user may be linked to an
// employee profile in the directory; admins manage all records, regular
// users see only their own workspace.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	EmployeeID   *uuid.UUID `json:"employee_id"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// NormalizeEmail canonicalizes an email the way accounts store it, so
// lookups and uniqueness checks agree regardless of the caller's casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a new active user account
func NewUser(email, passwordHash string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or user")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              role,
		Active:            true,
	}, nil
}

// LinkEmployee attaches the directory profile this account belongs to
func (u *User) LinkEmployee(employeeID uuid.UUID) {
	u.EmployeeID = &employeeID
	u.Touch()
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
