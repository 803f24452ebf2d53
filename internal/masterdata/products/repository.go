package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	const query = `SELECT p.id, p.name, p.brand_id, COALESCE(b.name, ''), p.supplier_id, COALESCE(s.name, ''),
            p.sell_price, p.currency, p.created_at
        FROM products p
        LEFT JOIN brands b ON b.id = p.brand_id
        LEFT JOIN suppliers s ON s.id = p.supplier_id
        ORDER BY p.name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandID, &p.BrandName, &p.SupplierID, &p.SupplierName,
			&p.SellPrice, &p.Currency, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (Product, error) {
	const query = `SELECT p.id, p.name, p.brand_id, COALESCE(b.name, ''), p.supplier_id, COALESCE(s.name, ''),
            p.sell_price, p.currency, p.created_at
        FROM products p
        LEFT JOIN brands b ON b.id = p.brand_id
        LEFT JOIN suppliers s ON s.id = p.supplier_id
        WHERE p.id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.BrandID, &p.BrandName, &p.SupplierID,
		&p.SupplierName, &p.SellPrice, &p.Currency, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	const query = `INSERT INTO products (name, brand_id, supplier_id, sell_price, currency)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, product.Name, product.BrandID, product.SupplierID,
		product.SellPrice, product.Currency).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if db.UniqueViolation(err) {
			return Product{}, shared.ErrAlreadyExists
		}
		return Product{}, err
	}
	return product, nil
}
