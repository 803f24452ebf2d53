package clients

import "time"

// Client represents a buying account.
type Client struct {
	ID                    int64
	Name                  string
	Country               string
	PostalCode            string
	City                  string
	Street                string
	HouseNumber           string
	VATNumber             string
	Email                 string
	OutboundTransportCost *float64
	CreatedAt             time.Time

	// TotalRevenue is the lifetime order revenue, populated by List.
	TotalRevenue float64
}

// ListFilters narrows the clients listing.
type ListFilters struct {
	Name       string
	Country    string
	MinRevenue *float64
	MaxRevenue *float64
	Sort       string

	// Raw form echoes for re-rendering the filter bar.
	MinRevenueRaw string
	MaxRevenueRaw string
}
