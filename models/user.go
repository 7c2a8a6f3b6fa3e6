package models

import (
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User represents user data in the system
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password_hash;size:200;not null"` // bcrypt hash
	Role      Role      `json:"role" gorm:"size:50;not null;default:staff"`
	CreatedAt time.Time `json:"-"`
}

// NewUser holds data needed to create an account
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserLogin holds data needed for login
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the verified identity attached to a request by the auth middleware.
type Session struct {
	SubjectID uint
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
