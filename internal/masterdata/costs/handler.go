package costs

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/masterdata/products"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	products  *products.Service
	clients   *clients.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, productSvc *products.Service, clientSvc *clients.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, products: productSvc, clients: clientSvc, templates: templates, csrf: csrf}
}

func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated())
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireRole(rbac.RoleStaff))
		r.Post("/product", h.SetProductCost)
		r.Post("/client", h.SetClientCost)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	costList, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list costs failed", "error", err)
		http.Error(w, "Failed to load cost records", http.StatusInternalServerError)
		return
	}
	productList, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("list products for cost form failed", "error", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	clientList, err := h.clients.List(r.Context(), clients.ListFilters{})
	if err != nil {
		h.logger.Error("list clients for cost form failed", "error", err)
		http.Error(w, "Failed to load clients", http.StatusInternalServerError)
		return
	}
	h.render(w, r, map[string]any{
		"Costs":    costList,
		"Products": productList,
		"Clients":  clientList,
	})
}

func (h *Handler) SetProductCost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	productID, _ := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	cost := ProductCost{ProductID: productID}

	var parseErr bool
	cost.ProductionCost, parseErr = parseCostField(r.PostFormValue("production_cost"), parseErr)
	cost.InboundTransportCost, parseErr = parseCostField(r.PostFormValue("inbound_transport_cost"), parseErr)
	cost.StorageCost, parseErr = parseCostField(r.PostFormValue("storage_cost"), parseErr)
	if parseErr {
		h.redirectWithFlash(w, r, "error", "Costs must be numbers")
		return
	}

	if err := h.service.SetProductCost(r.Context(), cost); err != nil {
		h.redirectWithFlash(w, r, "error", err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Product costs saved")
}

func (h *Handler) SetClientCost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	clientID, _ := strconv.ParseInt(r.PostFormValue("client_id"), 10, 64)
	cost, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("outbound_transport_cost")), 64)
	if err != nil {
		h.redirectWithFlash(w, r, "error", "Outbound cost must be a number")
		return
	}

	if err := h.service.SetClientOutboundCost(r.Context(), clientID, cost); err != nil {
		h.redirectWithFlash(w, r, "error", err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Client outbound cost saved")
}

// parseCostField treats an empty field as zero so partial forms still save.
func parseCostField(raw string, failed bool) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, failed
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true
	}
	return v, failed
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Costs",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/reports/costs.html", viewData); err != nil {
		h.logger.Error("render template", "error", err)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, "/reports/costs", http.StatusSeeOther)
}
