package entity

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status values stored in users.status. Only active users may authenticate.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// User is the aggregate root for the member directory.
// PasswordHash is a bcrypt hash; the verification token pair is set while
// status is pending and nulled on activation.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string

	VerificationToken          *string
	VerificationTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool { return u.Status == StatusActive }

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ValidRole reports whether r is an assignable role.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }
