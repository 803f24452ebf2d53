package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	GetByID(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	const query = `SELECT id, name, country, postal_code, city, street, house_number,
            vat_number, email, phone, created_at
        FROM suppliers ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Country, &s.PostalCode, &s.City, &s.Street,
			&s.HouseNumber, &s.VATNumber, &s.Email, &s.Phone, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (Supplier, error) {
	const query = `SELECT id, name, country, postal_code, city, street, house_number,
            vat_number, email, phone, created_at
        FROM suppliers WHERE id = $1`
	var s Supplier
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Country, &s.PostalCode, &s.City,
		&s.Street, &s.HouseNumber, &s.VATNumber, &s.Email, &s.Phone, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	const query = `INSERT INTO suppliers (name, country, postal_code, city, street, house_number, vat_number, email, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, supplier.Name, supplier.Country, supplier.PostalCode, supplier.City,
		supplier.Street, supplier.HouseNumber, supplier.VATNumber, supplier.Email, supplier.Phone).
		Scan(&supplier.ID, &supplier.CreatedAt)
	if err != nil {
		if db.UniqueViolation(err) {
			return Supplier{}, shared.ErrAlreadyExists
		}
		return Supplier{}, err
	}
	return supplier, nil
}
