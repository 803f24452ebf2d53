package auth

import "time"

// WebUser represents an application account. Sign-in is name based; a
// password is only checked when the account has one set.
type WebUser struct {
	ID           int64
	SupplierID   *int64
	Name         string
	Email        string
	Role         string
	PasswordHash *string
	CreatedAt    time.Time
}
