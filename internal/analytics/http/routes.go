package analytichttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

// MountRoutes registers the report endpoints. The CSV download gets its
// own tighter rate limit since it rebuilds the report on every hit when
// the cache is cold.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(gr chi.Router) {
		gr.Use(gate.RequireAuthenticated())
		gr.Get("/margin", h.MarginPage)
		gr.Get("/forecast", h.ForecastPage)
		gr.Group(func(lr chi.Router) {
			lr.Use(limiter)
			lr.Get("/margin/export.csv", h.MarginCSV)
		})
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
