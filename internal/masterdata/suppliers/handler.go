package suppliers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated())
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireRole(rbac.RoleStaff))
		r.Post("/", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list suppliers failed", "error", err)
		http.Error(w, "Failed to load suppliers", http.StatusInternalServerError)
		return
	}
	h.render(w, r, map[string]any{"Suppliers": list})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	supplier := Supplier{
		Name:        r.PostFormValue("name"),
		Country:     r.PostFormValue("country"),
		PostalCode:  r.PostFormValue("postal_code"),
		City:        r.PostFormValue("city"),
		Street:      r.PostFormValue("street"),
		HouseNumber: r.PostFormValue("house_number"),
		VATNumber:   r.PostFormValue("vat_number"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
	}

	if _, err := h.service.Create(r.Context(), supplier); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.redirectWithFlash(w, r, "error", "A supplier with that name already exists")
			return
		}
		h.redirectWithFlash(w, r, "error", err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Supplier created")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Suppliers",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/masterdata/suppliers_list.html", viewData); err != nil {
		h.logger.Error("render template", "error", err)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, "/masterdata/suppliers", http.StatusSeeOther)
}
