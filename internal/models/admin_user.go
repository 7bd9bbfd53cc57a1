package models

import "time"

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// MaxAdminUsers is the hard cap on concurrent admin accounts.
const MaxAdminUsers = 2

// AdminUser is a back-office operator account. PasswordHash and the
// verification material never serialize.
type AdminUser struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	IsEmailVerified    bool       `json:"is_email_verified"`
	VerificationToken  *string    `json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Usable reports whether the account may hold a session.
func (u *AdminUser) Usable() bool {
	return u.IsActive && u.IsEmailVerified
}
