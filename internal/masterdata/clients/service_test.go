package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/shared"
)

type mockRepository struct {
	byName   map[string]Client
	outbound map[int64]float64
}

func newMockRepository() *mockRepository {
	return &mockRepository{byName: map[string]Client{}, outbound: map[int64]float64{}}
}

func (m *mockRepository) List(_ context.Context, _ ListFilters) ([]Client, error) {
	out := make([]Client, 0, len(m.byName))
	for _, c := range m.byName {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRepository) GetByName(_ context.Context, name string) (Client, error) {
	c, ok := m.byName[name]
	if !ok {
		return Client{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) Create(_ context.Context, client Client) (Client, error) {
	if _, ok := m.byName[client.Name]; ok {
		return Client{}, shared.ErrAlreadyExists
	}
	client.ID = int64(len(m.byName) + 1)
	m.byName[client.Name] = client
	return client, nil
}

func (m *mockRepository) DeleteByName(_ context.Context, name string) error {
	if _, ok := m.byName[name]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byName, name)
	return nil
}

func (m *mockRepository) SetOutboundCost(_ context.Context, clientID int64, cost float64) error {
	m.outbound[clientID] = cost
	return nil
}

func TestCreateClientValidation(t *testing.T) {
	svc := NewService(newMockRepository())
	negative := -5.0

	tests := []struct {
		name    string
		client  Client
		wantErr string
	}{
		{"blank name", Client{Name: "   "}, "client name is required"},
		{"negative outbound", Client{Name: "Polder Sports BV", OutboundTransportCost: &negative}, "outbound cost cannot be negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.client)
			require.Error(t, err)
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestCreateClientDuplicate(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Client{Name: "Fjellsport AS", Country: "Norway"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), Client{Name: "Fjellsport AS"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestDeleteByName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), Client{Name: "Maison Verte SARL"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByName(context.Background(), "Maison Verte SARL"))
	assert.ErrorIs(t, svc.DeleteByName(context.Background(), "Maison Verte SARL"), shared.ErrNotFound)
	assert.Error(t, svc.DeleteByName(context.Background(), ""))
}

func TestSetOutboundCost(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	require.NoError(t, svc.SetOutboundCost(context.Background(), 3, 1800))
	assert.Equal(t, 1800.0, repo.outbound[3])

	assert.Error(t, svc.SetOutboundCost(context.Background(), 0, 10))
	assert.Error(t, svc.SetOutboundCost(context.Background(), 3, -1))
}
