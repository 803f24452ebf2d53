package brands

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/masterdata/suppliers"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	suppliers *suppliers.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, supplierSvc *suppliers.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, suppliers: supplierSvc, templates: templates, csrf: csrf}
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
		h.logger.Error("list brands failed", "error", err)
		http.Error(w, "Failed to load brands", http.StatusInternalServerError)
		return
	}
	supplierList, err := h.suppliers.List(r.Context())
	if err != nil {
		h.logger.Error("list suppliers for brand form failed", "error", err)
		http.Error(w, "Failed to load suppliers", http.StatusInternalServerError)
		return
	}
	h.render(w, r, map[string]any{"Brands": list, "Suppliers": supplierList})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	supplierID, _ := strconv.ParseInt(r.PostFormValue("supplier_id"), 10, 64)
	fee, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("license_fee_pct")), 64)
	if err != nil {
		h.redirectWithFlash(w, r, "error", "License fee must be a number between 0 and 1")
		return
	}

	brand := Brand{
		Name:       r.PostFormValue("name"),
		SupplierID: supplierID,
		LicenseFee: fee,
	}

	if _, err := h.service.Create(r.Context(), brand); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.redirectWithFlash(w, r, "error", "A brand with that name already exists")
			return
		}
		h.redirectWithFlash(w, r, "error", err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Brand created")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Brands",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/masterdata/brands_list.html", viewData); err != nil {
		h.logger.Error("render template", "error", err)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, "/masterdata/brands", http.StatusSeeOther)
}
