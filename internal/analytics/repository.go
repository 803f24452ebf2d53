package analytics

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MonthRow is one month of aggregated order revenue.
type MonthRow struct {
	Month   string
	Revenue float64
}

// OrderCostRow carries everything the margin formula needs for one
// order: revenue, the per-line cost sums, the order quantity, the
// highest license fee across the order's lines and how many orders the
// client placed in the selected year. All cost components are already
// coalesced to zero in SQL.
type OrderCostRow struct {
	OrderNr            string
	OrderDate          time.Time
	ClientID           int64
	Revenue            float64
	ProductionCost     float64
	InboundCost        float64
	StorageCost        float64
	OutboundUnitCost   float64
	OrderQuantity      float64
	LicenseFeeFraction float64
	ClientOrdersInYear int64
}

// MarginFilter selects the margin report scope. Year is required; a
// zero year yields the placeholder empty report.
type MarginFilter struct {
	Year     int
	Country  string
	ClientID int64
}

type Repository interface {
	MonthlyRevenue(ctx context.Context) ([]MonthRow, error)
	MarginRows(ctx context.Context, filter MarginFilter) ([]OrderCostRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// orderRevenue is one order's date and coalesced revenue before any
// month grouping happens.
type orderRevenue struct {
	Date    time.Time
	Revenue float64
}

// MonthlyRevenue loads one revenue figure per order and folds them into
// calendar-month buckets. Months without orders simply do not appear;
// revenue coalesces the header paid price with the line sums.
func (r *repository) MonthlyRevenue(ctx context.Context) ([]MonthRow, error) {
	const query = `SELECT o.order_date,
            COALESCE(o.paid_price, lr.line_revenue, 0) AS revenue
        FROM orders o
        LEFT JOIN LATERAL (
            SELECT SUM(ol.paid_price) AS line_revenue FROM order_lines ol WHERE ol.order_nr = o.order_nr
        ) lr ON TRUE`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []orderRevenue
	for rows.Next() {
		var row orderRevenue
		if err := rows.Scan(&row.Date, &row.Revenue); err != nil {
			return nil, err
		}
		orders = append(orders, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bucketMonthly(orders), nil
}

// bucketMonthly sums order revenue per YYYY-MM month and returns the
// buckets in ascending month order.
func bucketMonthly(orders []orderRevenue) []MonthRow {
	totals := make(map[string]float64, len(orders))
	for _, o := range orders {
		totals[o.Date.Format("2006-01")] += o.Revenue
	}

	result := make([]MonthRow, 0, len(totals))
	for month, revenue := range totals {
		result = append(result, MonthRow{Month: month, Revenue: revenue})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	if len(result) == 0 {
		return nil
	}
	return result
}

// MarginRows loads one row per order in the selected year, with the
// client's yearly order count attached as a window aggregate so the
// outbound apportionment never needs a second query.
func (r *repository) MarginRows(ctx context.Context, filter MarginFilter) ([]OrderCostRow, error) {
	query := `SELECT o.order_nr, o.order_date, o.client_id,
            COALESCE(o.paid_price, la.line_revenue, 0) AS revenue,
            COALESCE(la.production_cost, 0),
            COALESCE(la.inbound_cost, 0),
            COALESCE(la.storage_cost, 0),
            COALESCE(c.outbound_transport_cost, 0),
            COALESCE(o.quantity, la.line_qty, 0) AS order_quantity,
            COALESCE(la.license_fee, 0),
            COUNT(*) OVER (PARTITION BY o.client_id) AS client_orders_in_year
        FROM orders o
        JOIN clients c ON c.id = o.client_id
        LEFT JOIN LATERAL (
            SELECT SUM(ol.paid_price) AS line_revenue,
                   SUM(ol.quantity) AS line_qty,
                   SUM(COALESCE(pc.production_cost, 0) * ol.quantity) AS production_cost,
                   SUM(COALESCE(pc.inbound_transport_cost, 0) * ol.quantity) AS inbound_cost,
                   SUM(COALESCE(pc.storage_cost, 0) * ol.quantity) AS storage_cost,
                   MAX(COALESCE(b.license_fee_pct, 0)) AS license_fee
            FROM order_lines ol
            LEFT JOIN products p ON p.id = ol.product_id
            LEFT JOIN brands b ON b.id = p.brand_id
            LEFT JOIN product_costs pc ON pc.product_id = ol.product_id
            WHERE ol.order_nr = o.order_nr
        ) la ON TRUE
        WHERE EXTRACT(YEAR FROM o.order_date) = $1`
	args := []interface{}{filter.Year}
	argCount := 1

	if filter.Country != "" {
		argCount++
		query += ` AND LOWER(TRIM(c.country)) = LOWER(TRIM($` + strconv.Itoa(argCount) + `))`
		args = append(args, filter.Country)
	}
	if filter.ClientID > 0 {
		argCount++
		query += ` AND o.client_id = $` + strconv.Itoa(argCount)
		args = append(args, filter.ClientID)
	}

	query += ` ORDER BY o.order_date ASC, o.order_nr ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OrderCostRow
	for rows.Next() {
		var row OrderCostRow
		if err := rows.Scan(&row.OrderNr, &row.OrderDate, &row.ClientID, &row.Revenue,
			&row.ProductionCost, &row.InboundCost, &row.StorageCost, &row.OutboundUnitCost,
			&row.OrderQuantity, &row.LicenseFeeFraction, &row.ClientOrdersInYear); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
