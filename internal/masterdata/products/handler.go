package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/masterdata/brands"
	"github.com/tradewind-bv/tradewind/internal/masterdata/suppliers"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	brands    *brands.Service
	suppliers *suppliers.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, brandSvc *brands.Service, supplierSvc *suppliers.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, brands: brandSvc, suppliers: supplierSvc, templates: templates, csrf: csrf}
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
		h.logger.Error("list products failed", "error", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	brandList, err := h.brands.List(r.Context())
	if err != nil {
		h.logger.Error("list brands for product form failed", "error", err)
		http.Error(w, "Failed to load brands", http.StatusInternalServerError)
		return
	}
	supplierList, err := h.suppliers.List(r.Context())
	if err != nil {
		h.logger.Error("list suppliers for product form failed", "error", err)
		http.Error(w, "Failed to load suppliers", http.StatusInternalServerError)
		return
	}
	h.render(w, r, map[string]any{
		"Products":  list,
		"Brands":    brandList,
		"Suppliers": supplierList,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	brandID, _ := strconv.ParseInt(r.PostFormValue("brand_id"), 10, 64)
	supplierID, _ := strconv.ParseInt(r.PostFormValue("supplier_id"), 10, 64)
	price, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("sell_price")), 64)
	if err != nil {
		h.redirectWithFlash(w, r, "error", "Sell price must be a number")
		return
	}

	product := Product{
		Name:       r.PostFormValue("name"),
		BrandID:    brandID,
		SupplierID: supplierID,
		SellPrice:  price,
		Currency:   strings.ToUpper(strings.TrimSpace(r.PostFormValue("currency"))),
	}

	if _, err := h.service.Create(r.Context(), product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.redirectWithFlash(w, r, "error", "A product with that name already exists")
			return
		}
		h.redirectWithFlash(w, r, "error", err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Product created")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Products",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/masterdata/products_list.html", viewData); err != nil {
		h.logger.Error("render template", "error", err)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, "/masterdata/products", http.StatusSeeOther)
}
