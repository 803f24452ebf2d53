package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByName(ctx context.Context, name string) (*WebUser, error)
	Create(ctx context.Context, user WebUser) (*WebUser, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByName fetches a webuser by exact name.
func (r *PGRepository) FindByName(ctx context.Context, name string) (*WebUser, error) {
	const query = `SELECT id, supplier_id, name, email, role, password_hash, created_at
        FROM webusers WHERE name = $1`
	var u WebUser
	err := r.pool.QueryRow(ctx, query, name).Scan(&u.ID, &u.SupplierID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new webuser. A duplicate name maps to ErrAlreadyExists.
func (r *PGRepository) Create(ctx context.Context, user WebUser) (*WebUser, error) {
	const query = `INSERT INTO webusers (supplier_id, name, email, role, password_hash)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, user.SupplierID, user.Name, user.Email, user.Role, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if db.UniqueViolation(err) {
			return nil, shared.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
