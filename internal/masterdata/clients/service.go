package clients

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Client, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, client Client) (Client, error) {
	if err := s.validate(client); err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, client)
}

func (s *Service) DeleteByName(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("client name is required")
	}
	return s.repo.DeleteByName(ctx, name)
}

func (s *Service) SetOutboundCost(ctx context.Context, clientID int64, cost float64) error {
	if clientID <= 0 {
		return errors.New("invalid client ID")
	}
	if cost < 0 {
		return errors.New("outbound cost cannot be negative")
	}
	return s.repo.SetOutboundCost(ctx, clientID, cost)
}
