package users

import "time"

// WebUser is a row on the webusers listing page.
type WebUser struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	SupplierName *string
	CreatedAt    time.Time
}
