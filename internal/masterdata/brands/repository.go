package brands

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Brand, error)
	GetByID(ctx context.Context, id int64) (Brand, error)
	Create(ctx context.Context, brand Brand) (Brand, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Brand, error) {
	const query = `SELECT b.id, b.name, b.supplier_id, COALESCE(s.name, ''), b.license_fee_pct, b.created_at
        FROM brands b
        LEFT JOIN suppliers s ON s.id = b.supplier_id
        ORDER BY b.name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Brand
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.SupplierID, &b.SupplierName, &b.LicenseFee, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (Brand, error) {
	const query = `SELECT b.id, b.name, b.supplier_id, COALESCE(s.name, ''), b.license_fee_pct, b.created_at
        FROM brands b
        LEFT JOIN suppliers s ON s.id = b.supplier_id
        WHERE b.id = $1`
	var b Brand
	err := r.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.SupplierID, &b.SupplierName, &b.LicenseFee, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, brand Brand) (Brand, error) {
	const query = `INSERT INTO brands (name, supplier_id, license_fee_pct)
        VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, brand.Name, brand.SupplierID, brand.LicenseFee).
		Scan(&brand.ID, &brand.CreatedAt)
	if err != nil {
		if db.UniqueViolation(err) {
			return Brand{}, shared.ErrAlreadyExists
		}
		return Brand{}, err
	}
	return brand, nil
}
