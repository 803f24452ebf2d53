package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListWebUsers returns all webusers with their supplier name when linked.
func (r *Repository) ListWebUsers(ctx context.Context) ([]WebUser, error) {
	const query = `SELECT u.id, u.name, u.email, u.role, s.name, u.created_at
        FROM webusers u
        LEFT JOIN suppliers s ON s.id = u.supplier_id
        ORDER BY u.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WebUser
	for rows.Next() {
		var u WebUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.SupplierName, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
