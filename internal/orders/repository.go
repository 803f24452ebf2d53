package orders

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]ListRow, error)
	Create(ctx context.Context, order Order) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

// List joins headers with clients, suppliers and the line aggregates.
// Quantity and revenue coalesce header values with line sums so both
// schema revisions list correctly.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]ListRow, error) {
	query := `SELECT o.order_nr, o.order_date, o.client_id, COALESCE(c.name, ''), COALESCE(s.name, ''), o.status,
            COALESCE(o.quantity, la.line_qty, 0) AS total_quantity,
            COALESCE(o.paid_price, la.line_revenue, 0) AS revenue
        FROM orders o
        LEFT JOIN clients c ON c.id = o.client_id
        LEFT JOIN suppliers s ON s.id = o.supplier_id
        LEFT JOIN LATERAL (
            SELECT SUM(ol.quantity) AS line_qty, SUM(ol.paid_price) AS line_revenue
            FROM order_lines ol WHERE ol.order_nr = o.order_nr
        ) la ON TRUE
        WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ClientID > 0 {
		argCount++
		query += ` AND o.client_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ClientID)
	}
	if filters.ProductID > 0 {
		argCount++
		query += ` AND EXISTS (SELECT 1 FROM order_lines ol2 WHERE ol2.order_nr = o.order_nr AND ol2.product_id = $` + strconv.Itoa(argCount) + `)`
		args = append(args, filters.ProductID)
	}
	if filters.MinQuantity != nil {
		argCount++
		query += ` AND COALESCE(o.quantity, la.line_qty, 0) >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.MinQuantity)
	}
	if filters.MaxQuantity != nil {
		argCount++
		query += ` AND COALESCE(o.quantity, la.line_qty, 0) <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.MaxQuantity)
	}

	query += ` ORDER BY ` + sortOrder(filters.Sort)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListRow
	for rows.Next() {
		var row ListRow
		if err := rows.Scan(&row.OrderNr, &row.OrderDate, &row.ClientID, &row.ClientName, &row.SupplierName,
			&row.Status, &row.Quantity, &row.Revenue); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Create writes the header and its lines in a single transaction so a
// failed line insert never leaves an orphan header.
func (r *repository) Create(ctx context.Context, order Order) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const headerQuery = `INSERT INTO orders (order_nr, client_id, supplier_id, order_date, status, quantity, paid_price)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.Exec(ctx, headerQuery, order.OrderNr, order.ClientID, order.SupplierID,
			order.OrderDate, order.Status, order.Quantity, order.PaidPrice); err != nil {
			if db.UniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		const lineQuery = `INSERT INTO order_lines (order_nr, product_id, quantity, paid_price, currency)
            VALUES ($1, $2, $3, $4, $5)`
		for _, line := range order.Lines {
			if _, err := tx.Exec(ctx, lineQuery, order.OrderNr, line.ProductID, line.Quantity,
				line.PaidPrice, line.Currency); err != nil {
				return err
			}
		}
		return nil
	})
}

func sortOrder(sortBy string) string {
	switch sortBy {
	case "quantity":
		return "total_quantity DESC, o.order_date DESC"
	case "revenue":
		return "revenue DESC, o.order_date DESC"
	default:
		return "o.order_date DESC, o.order_nr DESC"
	}
}
