package clients

import (
	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated())
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireRole(rbac.RoleStaff))
		r.Post("/", h.Create)
		r.Post("/delete-by-name", h.DeleteByName)
	})
}
