package rbac

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradewind-bv/tradewind/internal/shared"
)

// Role levels, lowest to highest.
const (
	RoleViewer = "viewer"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

var roleRank = map[string]int{
	RoleViewer: 1,
	RoleStaff:  2,
	RoleAdmin:  3,
}

// Service resolves the role attached to a webuser.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a role lookup service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// RoleFor returns the webuser's role, defaulting to viewer when unset.
func (s *Service) RoleFor(ctx context.Context, userID int64) (string, error) {
	var role string
	err := s.pool.QueryRow(ctx, `SELECT role FROM webusers WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	role = strings.TrimSpace(strings.ToLower(role))
	if _, ok := roleRank[role]; !ok {
		role = RoleViewer
	}
	return role, nil
}

// Middleware gates routes on a minimum role.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireRole rejects requests whose session user lacks the minimum role.
// Unauthenticated requests are redirected to the login page.
func (m Middleware) RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if !sess.IsAuthenticated() {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			if m.Service == nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := strconv.ParseInt(sess.User(), 10, 64)
			if err != nil {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			role, err := m.Service.RoleFor(r.Context(), userID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Warn("resolve role", slog.Int64("user_id", userID), slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if roleRank[role] < roleRank[minimum] {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated only checks for a signed-in session.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if !sess.IsAuthenticated() {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
