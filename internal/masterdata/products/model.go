package products

import "time"

type Product struct {
	ID           int64
	Name         string
	BrandID      int64
	BrandName    string
	SupplierID   int64
	SupplierName string
	SellPrice    float64
	Currency     string
	CreatedAt    time.Time
}
