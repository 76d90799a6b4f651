package model

import "time"

// Account roles. Managers own their slice of the domain tables; admins can
// see and reset every account's data.
const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Account represents a row in the `accounts` table. The password hash and
// lockout bookkeeping never leave the server; handlers expose the Profile
// view instead.
type Account struct {
	ID             uint64     // accounts.id
	Username       string     // accounts.username (unique)
	Email          string     // accounts.email (unique)
	PasswordHash   string     // accounts.password_hash (bcrypt)
	Role           string     // accounts.role ('manager' or 'admin')
	FullName       *string    // accounts.full_name (nullable)
	Phone          *string    // accounts.phone (nullable)
	FailedAttempts int        // consecutive failed password confirmations
	LockedUntil    *time.Time // lockout window end (nullable)
	ExpiresAt      *time.Time // account expiry; login is rejected past this
	CreatedAt      time.Time  // accounts.created_at
	UpdatedAt      time.Time  // accounts.updated_at
}

// Locked reports whether the account is currently inside a lockout window.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// Expired reports whether the account has passed its expiry timestamp.
func (a *Account) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// Profile is the client-facing view of an account.
type Profile struct {
	ID        uint64     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	FullName  *string    `json:"full_name"`
	Phone     *string    `json:"phone"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ProfileView returns the exposable subset of an account.
func (a *Account) ProfileView() Profile {
	return Profile{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		FullName:  a.FullName,
		Phone:     a.Phone,
		ExpiresAt: a.ExpiresAt,
		CreatedAt: a.CreatedAt,
	}
}
