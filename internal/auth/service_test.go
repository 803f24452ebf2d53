package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradewind-bv/tradewind/internal/shared"
)

type mockRepository struct {
	users map[string]*WebUser
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: map[string]*WebUser{}}
}

func (m *mockRepository) FindByName(_ context.Context, name string) (*WebUser, error) {
	u, ok := m.users[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Create(_ context.Context, user WebUser) (*WebUser, error) {
	if _, ok := m.users[user.Name]; ok {
		return nil, shared.ErrAlreadyExists
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.Name] = &user
	return &user, nil
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestAuthenticatePasswordAccount(t *testing.T) {
	repo := newMockRepository()
	repo.users["admin"] = &WebUser{ID: 1, Name: "admin", Role: "admin", PasswordHash: hashOf(t, "secret")}
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Name)

	_, err = svc.Authenticate(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticatePasswordlessAccount(t *testing.T) {
	repo := newMockRepository()
	repo.users["legacy"] = &WebUser{ID: 2, Name: "legacy", Role: "viewer"}
	svc := NewService(repo)

	// Accounts without a stored hash sign in on name alone.
	user, err := svc.Authenticate(context.Background(), "legacy", "")
	require.NoError(t, err)
	assert.Equal(t, "viewer", user.Role)
}

func TestAuthenticateTrimsAndRejectsBlank(t *testing.T) {
	repo := newMockRepository()
	repo.users["admin"] = &WebUser{ID: 1, Name: "admin", Role: "admin"}
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "  admin  ", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Name)

	_, err = svc.Authenticate(context.Background(), "   ", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterParams{
		Name:     " fleur ",
		Email:    "fleur@tradewind.local",
		Role:     "warehouse-wizard",
		Password: "tulip",
	})
	require.NoError(t, err)
	assert.Equal(t, "fleur", user.Name)
	assert.Equal(t, "viewer", user.Role)
	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("tulip")))
}

func TestRegisterDuplicateName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{Name: "fleur"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), RegisterParams{Name: "fleur"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRegisterKeepsExplicitRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterParams{Name: "ops", Role: " Staff "})
	require.NoError(t, err)
	assert.Equal(t, "staff", user.Role)
	assert.Nil(t, user.PasswordHash)
}
