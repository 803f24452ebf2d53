package orders

import (
	"context"
	"errors"
	"strings"
	"time"
)

var validStatuses = map[string]bool{
	"open":     true,
	"shipped":  true,
	"invoiced": true,
	"closed":   true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]ListRow, error) {
	return s.repo.List(ctx, filters)
}

// CreateParams is the form payload for a new order. Lines with a zero
// product ID have already been dropped by the handler.
type CreateParams struct {
	OrderNr    string
	ClientID   int64
	SupplierID int64
	OrderDate  time.Time
	Status     string
	Lines      []Line
}

func (s *Service) Create(ctx context.Context, params CreateParams) error {
	orderNr := strings.TrimSpace(params.OrderNr)
	if orderNr == "" {
		return errors.New("order number is required")
	}
	if params.ClientID <= 0 {
		return errors.New("a client is required")
	}
	if params.OrderDate.IsZero() {
		return errors.New("order date is required")
	}
	status := params.Status
	if status == "" {
		status = "open"
	}
	if !validStatuses[status] {
		return errors.New("unknown order status")
	}
	if len(params.Lines) == 0 {
		return errors.New("an order needs at least one line")
	}
	for _, line := range params.Lines {
		if line.Quantity <= 0 {
			return errors.New("line quantities must be positive")
		}
		if line.PaidPrice < 0 {
			return errors.New("line prices cannot be negative")
		}
	}

	order := Order{
		OrderNr:   orderNr,
		ClientID:  params.ClientID,
		OrderDate: params.OrderDate,
		Status:    status,
		Lines:     params.Lines,
	}
	if params.SupplierID > 0 {
		order.SupplierID = &params.SupplierID
	}
	// Header totals stay NULL for new orders; quantity and revenue are
	// derived from the lines when reading.
	return s.repo.Create(ctx, order)
}
