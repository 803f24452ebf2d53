package orders

import "time"

// Order is the header row. Quantity and PaidPrice are nullable because
// older records kept totals at the header while newer ones keep them on
// the lines; readers coalesce between the two.
type Order struct {
	OrderNr    string
	ClientID   int64
	SupplierID *int64
	OrderDate  time.Time
	Status     string
	Quantity   *int
	PaidPrice  *float64
	Lines      []Line
}

type Line struct {
	LineNr    int64
	OrderNr   string
	ProductID int64
	Quantity  int
	PaidPrice float64
	Currency  string
}

// ListRow is the denormalized listing shape: header fields joined with
// client and supplier names, quantity and revenue already coalesced.
type ListRow struct {
	OrderNr      string
	OrderDate    time.Time
	ClientID     int64
	ClientName   string
	SupplierName string
	Status       string
	Quantity     int
	Revenue      float64
}

// ListFilters carries the query-string filters for the orders page. Raw
// fields keep the user's input so the form can re-render it verbatim.
type ListFilters struct {
	ClientID       int64
	ProductID      int64
	MinQuantity    *int
	MaxQuantity    *int
	MinQuantityRaw string
	MaxQuantityRaw string
	Sort           string
}
