package suppliers

import "time"

// Supplier represents a sourcing partner.
type Supplier struct {
	ID          int64
	Name        string
	Country     string
	PostalCode  string
	City        string
	Street      string
	HouseNumber string
	VATNumber   string
	Email       string
	Phone       string
	CreatedAt   time.Time
}
