package costs

import (
	"context"
	"errors"

	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
)

type Service struct {
	repo    Repository
	clients clients.Repository
}

func NewService(repo Repository, clientRepo clients.Repository) *Service {
	return &Service{repo: repo, clients: clientRepo}
}

func (s *Service) List(ctx context.Context) ([]ProductCost, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetProductCost(ctx context.Context, cost ProductCost) error {
	if cost.ProductID <= 0 {
		return errors.New("a product is required")
	}
	if cost.ProductionCost < 0 || cost.InboundTransportCost < 0 || cost.StorageCost < 0 {
		return errors.New("costs cannot be negative")
	}
	return s.repo.Upsert(ctx, cost)
}

func (s *Service) SetClientOutboundCost(ctx context.Context, clientID int64, cost float64) error {
	if clientID <= 0 {
		return errors.New("a client is required")
	}
	if cost < 0 {
		return errors.New("outbound cost cannot be negative")
	}
	return s.clients.SetOutboundCost(ctx, clientID, cost)
}
