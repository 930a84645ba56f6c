package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether s is one of the assignable account roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("account already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfRoleChange     = errors.New("cannot change own role")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an account holder. Emails are stored lower-cased; services fold
// input before any lookup so the unique index operates on one canonical form.
//
// Invariant: every user keeps at least one usable sign-in path — a password
// hash, a linked Google subject id, or both once a local account is linked.
// Linking Google to an existing local account never clears PasswordHash.
type User struct {
	ID             string     `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	GoogleID       string     `json:"-"`
	Phone          string     `json:"phone,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Role           string     `json:"role"`
	EmailVerified  bool       `json:"email_verified"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// HasPassword reports whether local (email + password) login is possible.
// Google-only accounts have no hash until a reset flow sets one.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
