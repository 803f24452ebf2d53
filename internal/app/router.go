package app

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/tradewind-bv/tradewind/internal/analytics/http"
	"github.com/tradewind-bv/tradewind/internal/auth"
	"github.com/tradewind-bv/tradewind/internal/masterdata/brands"
	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/masterdata/costs"
	"github.com/tradewind-bv/tradewind/internal/masterdata/products"
	"github.com/tradewind-bv/tradewind/internal/masterdata/suppliers"
	"github.com/tradewind-bv/tradewind/internal/observability"
	"github.com/tradewind-bv/tradewind/internal/orders"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/users"
	"github.com/tradewind-bv/tradewind/internal/view"
	"github.com/tradewind-bv/tradewind/jobs"
	"github.com/tradewind-bv/tradewind/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	RBACMiddleware rbac.Middleware

	AuthHandler      *auth.Handler
	ClientsHandler   *clients.Handler
	SuppliersHandler *suppliers.Handler
	BrandsHandler    *brands.Handler
	ProductsHandler  *products.Handler
	CostsHandler     *costs.Handler
	OrdersHandler    *orders.Handler
	UsersHandler     *users.Handler
	ReportsHandler   *analytichttp.Handler
	JobHandler       *jobs.Handler

	// ReportCache, when set, is bumped after every successful mutation so
	// the margin and forecast reports never serve stale aggregates.
	ReportCache CacheBumper

	Metrics *observability.Metrics
}

// CacheBumper invalidates cached report payloads.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// NewRouter constructs the chi router with the Tradewind defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.ReportCache != nil {
		r.Use(reportCacheBust(params.ReportCache, params.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Landing page for unauthenticated visitors.
	r.Get("/welcome", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}
		data := view.TemplateData{
			Title:     "Tradewind",
			CSRFToken: csrfToken,
			Flash:     flash,
		}
		if err := params.Templates.Render(w, "pages/landing.html", data); err != nil {
			params.Logger.Error("render landing", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if !sess.IsAuthenticated() {
			http.Redirect(w, r, "/welcome", http.StatusSeeOther)
			return
		}

		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		data := view.TemplateData{
			Title:     "Tradewind",
			CSRFToken: csrfToken,
			Flash:     sess.PopFlash(),
			Data: map[string]any{
				"AppEnv": params.Config.AppEnv,
			},
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	gate := params.RBACMiddleware
	r.Route("/masterdata/clients", func(r chi.Router) {
		params.ClientsHandler.MountRoutes(r, gate)
	})
	r.Route("/masterdata/suppliers", func(r chi.Router) {
		params.SuppliersHandler.MountRoutes(r, gate)
	})
	r.Route("/masterdata/brands", func(r chi.Router) {
		params.BrandsHandler.MountRoutes(r, gate)
	})
	r.Route("/masterdata/products", func(r chi.Router) {
		params.ProductsHandler.MountRoutes(r, gate)
	})
	r.Route("/orders", func(r chi.Router) {
		params.OrdersHandler.MountRoutes(r, gate)
	})
	r.Route("/reports", func(r chi.Router) {
		params.ReportsHandler.MountRoutes(r, gate)
		r.Route("/costs", func(r chi.Router) {
			params.CostsHandler.MountRoutes(r, gate)
		})
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(gate.RequireRole(rbac.RoleAdmin))
		params.UsersHandler.MountRoutes(r)
	})
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// reportCacheBust increments the report cache version after any mutation
// that succeeded, so subsequent report reads recompute from the database.
func reportCacheBust(cache CacheBumper, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() < 400 {
				if err := cache.Bump(r.Context()); err != nil {
					logger.Warn("bump report cache", slog.Any("error", err))
				}
			}
		})
	}
}

// staticCacheHandler lets browsers hold static assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
