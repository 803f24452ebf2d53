package brands

import "time"

// Brand groups products under a supplier's label. LicenseFee is the
// revenue fraction owed to the brand owner, stored as 0..1.
type Brand struct {
	ID           int64
	Name         string
	SupplierID   int64
	SupplierName string
	LicenseFee   float64
	CreatedAt    time.Time
}

// LicenseFeePctDisplay renders the fraction as a percentage for lists.
func (b Brand) LicenseFeePctDisplay() float64 {
	return b.LicenseFee * 100
}
