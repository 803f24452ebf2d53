package costs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]ProductCost, error)
	Upsert(ctx context.Context, cost ProductCost) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]ProductCost, error) {
	const query = `SELECT pc.id, pc.product_id, COALESCE(p.name, ''),
            COALESCE(pc.production_cost, 0), COALESCE(pc.inbound_transport_cost, 0),
            COALESCE(pc.storage_cost, 0), pc.updated_at
        FROM product_costs pc
        LEFT JOIN products p ON p.id = pc.product_id
        ORDER BY p.name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProductCost
	for rows.Next() {
		var c ProductCost
		if err := rows.Scan(&c.ID, &c.ProductID, &c.ProductName, &c.ProductionCost,
			&c.InboundTransportCost, &c.StorageCost, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// Upsert keeps the one-row-per-product invariant via the unique index.
func (r *repository) Upsert(ctx context.Context, cost ProductCost) error {
	const query = `INSERT INTO product_costs (product_id, production_cost, inbound_transport_cost, storage_cost, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (product_id) DO UPDATE SET
            production_cost = EXCLUDED.production_cost,
            inbound_transport_cost = EXCLUDED.inbound_transport_cost,
            storage_cost = EXCLUDED.storage_cost,
            updated_at = now()`
	_, err := r.db.Exec(ctx, query, cost.ProductID, cost.ProductionCost, cost.InboundTransportCost, cost.StorageCost)
	return err
}
