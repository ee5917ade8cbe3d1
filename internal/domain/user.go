package domain

import (
	"context"
	"time"
)

// Role is the numeric role stored on a user row. Values match the ones the
// token issuer already uses.
type Role int

const (
	RoleStudent    Role = 1
	RoleAdmin      Role = 2
	RoleMentor     Role = 3
	RoleSuperAdmin Role = 99
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleAdmin:
		return "Admin"
	case RoleMentor:
		return "Mentor"
	case RoleSuperAdmin:
		return "SuperAdmin"
	default:
		return "Unknown"
	}
}

// IsAdmin reports whether the role carries unconditional room access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents an account of any role.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	Gender       int       `json:"gender"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    int64     `json:"created_by"`
	UpdatedAt    time.Time `json:"updated_at"`
	UpdatedBy    int64     `json:"updated_by"`
	IsActive     bool      `json:"is_active"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
