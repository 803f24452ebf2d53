package clients

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Client, error)
	GetByName(ctx context.Context, name string) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	DeleteByName(ctx context.Context, name string) error
	SetOutboundCost(ctx context.Context, clientID int64, cost float64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// List compiles the optional filters into one aggregation query. Revenue
// per client coalesces the order-level paid price with the summed line
// prices, matching the two schema revisions the data carries.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]Client, error) {
	query := `SELECT c.id, c.name, c.country, c.postal_code, c.city, c.street, c.house_number,
            c.vat_number, c.email, c.outbound_transport_cost, c.created_at,
            COALESCE(SUM(COALESCE(o.paid_price, lr.line_revenue, 0)), 0) AS total_revenue
        FROM clients c
        LEFT JOIN orders o ON o.client_id = c.id
        LEFT JOIN LATERAL (
            SELECT SUM(ol.paid_price) AS line_revenue FROM order_lines ol WHERE ol.order_nr = o.order_nr
        ) lr ON TRUE
        WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Name != "" {
		argCount++
		query += ` AND c.name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Name+"%")
	}
	if country := strings.TrimSpace(filters.Country); country != "" {
		argCount++
		query += ` AND LOWER(TRIM(c.country)) = LOWER($` + strconv.Itoa(argCount) + `)`
		args = append(args, country)
	}

	query += ` GROUP BY c.id`

	having := []string{}
	if filters.MinRevenue != nil {
		argCount++
		having = append(having, `COALESCE(SUM(COALESCE(o.paid_price, lr.line_revenue, 0)), 0) >= $`+strconv.Itoa(argCount))
		args = append(args, *filters.MinRevenue)
	}
	if filters.MaxRevenue != nil {
		argCount++
		having = append(having, `COALESCE(SUM(COALESCE(o.paid_price, lr.line_revenue, 0)), 0) <= $`+strconv.Itoa(argCount))
		args = append(args, *filters.MaxRevenue)
	}
	if len(having) > 0 {
		query += ` HAVING ` + strings.Join(having, " AND ")
	}

	query += ` ORDER BY ` + sortOrder(filters.Sort)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.PostalCode, &c.City, &c.Street, &c.HouseNumber,
			&c.VATNumber, &c.Email, &c.OutboundTransportCost, &c.CreatedAt, &c.TotalRevenue); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) GetByName(ctx context.Context, name string) (Client, error) {
	const query = `SELECT id, name, country, postal_code, city, street, house_number,
            vat_number, email, outbound_transport_cost, created_at
        FROM clients WHERE name = $1`
	var c Client
	err := r.db.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name, &c.Country, &c.PostalCode, &c.City,
		&c.Street, &c.HouseNumber, &c.VATNumber, &c.Email, &c.OutboundTransportCost, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, client Client) (Client, error) {
	const query = `INSERT INTO clients (name, country, postal_code, city, street, house_number, vat_number, email, outbound_transport_cost)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, client.Name, client.Country, client.PostalCode, client.City,
		client.Street, client.HouseNumber, client.VATNumber, client.Email, client.OutboundTransportCost).
		Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		if db.UniqueViolation(err) {
			return Client{}, shared.ErrAlreadyExists
		}
		return Client{}, err
	}
	return client, nil
}

func (r *repository) DeleteByName(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetOutboundCost(ctx context.Context, clientID int64, cost float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE clients SET outbound_transport_cost = $1 WHERE id = $2`, cost, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy string) string {
	switch sortBy {
	case "country":
		return "c.country ASC, c.name ASC"
	case "revenue":
		return "total_revenue DESC, c.name ASC"
	default:
		return "c.name ASC"
	}
}
