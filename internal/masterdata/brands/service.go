package brands

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

func (s *Service) List(ctx context.Context) ([]Brand, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, brand Brand) (Brand, error) {
	if strings.TrimSpace(brand.Name) == "" {
		return Brand{}, errors.New("brand name is required")
	}
	if brand.SupplierID <= 0 {
		return Brand{}, errors.New("a supplier is required")
	}
	// The fee is a fraction of revenue, so anything past 1 would hand
	// out more than the order brings in.
	if brand.LicenseFee < 0 || brand.LicenseFee > 1 {
		return Brand{}, errors.New("license fee must be between 0 and 1")
	}
	return s.repo.Create(ctx, brand)
}
