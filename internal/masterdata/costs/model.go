package costs

import "time"

// ProductCost holds the per-unit cost figures for one product. There is
// at most one row per product; setting costs again replaces the row.
type ProductCost struct {
	ID                   int64
	ProductID            int64
	ProductName          string
	ProductionCost       float64
	InboundTransportCost float64
	StorageCost          float64
	UpdatedAt            time.Time
}
