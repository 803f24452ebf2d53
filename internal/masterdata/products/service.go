package products

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return Product{}, errors.New("product name is required")
	}
	if product.BrandID <= 0 {
		return Product{}, errors.New("a brand is required")
	}
	if product.SupplierID <= 0 {
		return Product{}, errors.New("a supplier is required")
	}
	if product.SellPrice < 0 {
		return Product{}, errors.New("sell price cannot be negative")
	}
	if product.Currency == "" {
		product.Currency = "EUR"
	}
	return s.repo.Create(ctx, product)
}
