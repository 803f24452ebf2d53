package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/shared"
)

type mockRepository struct {
	orders map[string]Order

	listRows []ListRow
	listErr  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{orders: make(map[string]Order)}
}

func (m *mockRepository) List(_ context.Context, _ ListFilters) ([]ListRow, error) {
	return m.listRows, m.listErr
}

func (m *mockRepository) Create(_ context.Context, order Order) error {
	if _, ok := m.orders[order.OrderNr]; ok {
		return shared.ErrAlreadyExists
	}
	m.orders[order.OrderNr] = order
	return nil
}

func validParams() CreateParams {
	return CreateParams{
		OrderNr:   "2024-17",
		ClientID:  3,
		OrderDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:    "open",
		Lines: []Line{
			{ProductID: 1, Quantity: 10, PaidPrice: 250, Currency: "EUR"},
			{ProductID: 2, Quantity: 5, PaidPrice: 100, Currency: "EUR"},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	require.NoError(t, svc.Create(context.Background(), validParams()))

	stored, ok := repo.orders["2024-17"]
	require.True(t, ok)
	assert.Len(t, stored.Lines, 2)
	assert.Nil(t, stored.Quantity)
	assert.Nil(t, stored.PaidPrice)
	assert.Nil(t, stored.SupplierID)
}

func TestCreateOrderDuplicateNumber(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	require.NoError(t, svc.Create(context.Background(), validParams()))
	err := svc.Create(context.Background(), validParams())
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestCreateOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"missing order number", func(p *CreateParams) { p.OrderNr = "  " }},
		{"missing client", func(p *CreateParams) { p.ClientID = 0 }},
		{"missing date", func(p *CreateParams) { p.OrderDate = time.Time{} }},
		{"unknown status", func(p *CreateParams) { p.Status = "archived" }},
		{"no lines", func(p *CreateParams) { p.Lines = nil }},
		{"zero quantity line", func(p *CreateParams) { p.Lines[0].Quantity = 0 }},
		{"negative price line", func(p *CreateParams) { p.Lines[1].PaidPrice = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := NewService(repo)
			params := validParams()
			tc.mutate(&params)
			assert.Error(t, svc.Create(context.Background(), params))
			assert.Empty(t, repo.orders)
		})
	}
}

func TestCreateOrderDefaultsStatusAndSupplier(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	params := validParams()
	params.Status = ""
	params.SupplierID = 7
	require.NoError(t, svc.Create(context.Background(), params))

	stored := repo.orders["2024-17"]
	assert.Equal(t, "open", stored.Status)
	require.NotNil(t, stored.SupplierID)
	assert.Equal(t, int64(7), *stored.SupplierID)
}

func TestParseLinesSkipsEmptyRows(t *testing.T) {
	lines, err := parseLines(
		[]string{"1", "", "3"},
		[]string{"10", "", "4"},
		[]string{"99.5", "", "12"},
	)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 10, lines[0].Quantity)
	assert.Equal(t, 99.5, lines[0].PaidPrice)
	assert.Equal(t, int64(3), lines[1].ProductID)
}

func TestParseLinesRejectsBadNumbers(t *testing.T) {
	_, err := parseLines([]string{"1"}, []string{"ten"}, []string{"99"})
	assert.Error(t, err)

	_, err = parseLines([]string{"1"}, []string{"10"}, []string{"cheap"})
	assert.Error(t, err)
}
