package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/masterdata/products"
	"github.com/tradewind-bv/tradewind/internal/masterdata/suppliers"
	"github.com/tradewind-bv/tradewind/internal/rbac"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

// lineSlotCount is how many empty line rows the order form renders.
const lineSlotCount = 5

type Handler struct {
	logger    *slog.Logger
	service   *Service
	clients   *clients.Service
	suppliers *suppliers.Service
	products  *products.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service *Service, clientSvc *clients.Service, supplierSvc *suppliers.Service, productSvc *products.Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		clients:   clientSvc,
		suppliers: supplierSvc,
		products:  productSvc,
		templates: templates,
		csrf:      csrf,
	}
}

func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated())
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireRole(rbac.RoleStaff))
		r.Get("/new", h.ShowForm)
		r.Post("/", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Sort:           q.Get("sort"),
		MinQuantityRaw: q.Get("min_q"),
		MaxQuantityRaw: q.Get("max_q"),
	}
	filters.ClientID, _ = strconv.ParseInt(q.Get("client_id"), 10, 64)
	filters.ProductID, _ = strconv.ParseInt(q.Get("product_id"), 10, 64)
	if v, err := strconv.Atoi(strings.TrimSpace(filters.MinQuantityRaw)); err == nil {
		filters.MinQuantity = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(filters.MaxQuantityRaw)); err == nil {
		filters.MaxQuantity = &v
	}
	if filters.Sort == "" {
		filters.Sort = "date"
	}

	list, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}
	clientList, err := h.clients.List(r.Context(), clients.ListFilters{})
	if err != nil {
		h.logger.Error("list clients for order filters failed", "error", err)
		http.Error(w, "Failed to load clients", http.StatusInternalServerError)
		return
	}
	productList, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error("list products for order filters failed", "error", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/orders/orders_list.html", "Orders", map[string]any{
		"Orders":   list,
		"Filters":  filters,
		"Clients":  clientList,
		"Products": productList,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r)
	if err != nil {
		h.logger.Error("load order form failed", "error", err)
		http.Error(w, "Failed to load the order form", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/orders/order_form.html", "New order", data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	params := CreateParams{
		OrderNr: r.PostFormValue("order_nr"),
		Status:  r.PostFormValue("status"),
	}
	params.ClientID, _ = strconv.ParseInt(r.PostFormValue("client_id"), 10, 64)
	params.SupplierID, _ = strconv.ParseInt(r.PostFormValue("supplier_id"), 10, 64)
	if raw := r.PostFormValue("order_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.renderFormError(w, r, "Order date must look like 2024-06-15")
			return
		}
		params.OrderDate = t
	}

	lines, err := parseLines(r.PostForm["line_product_id"], r.PostForm["line_quantity"], r.PostForm["line_paid_price"])
	if err != nil {
		h.renderFormError(w, r, err.Error())
		return
	}
	params.Lines = lines

	if err := h.service.Create(r.Context(), params); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.renderFormError(w, r, "An order with that number already exists")
			return
		}
		h.renderFormError(w, r, err.Error())
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Order " + strings.TrimSpace(params.OrderNr) + " created"})
	}
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// parseLines zips the parallel form arrays into order lines, skipping
// rows where no product was picked.
func parseLines(productIDs, quantities, prices []string) ([]Line, error) {
	var lines []Line
	for i, rawID := range productIDs {
		rawID = strings.TrimSpace(rawID)
		if rawID == "" {
			continue
		}
		productID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, errors.New("line product is invalid")
		}
		line := Line{ProductID: productID, Currency: "EUR"}
		if i < len(quantities) {
			line.Quantity, err = strconv.Atoi(strings.TrimSpace(quantities[i]))
			if err != nil {
				return nil, errors.New("line quantities must be whole numbers")
			}
		}
		if i < len(prices) {
			line.PaidPrice, err = strconv.ParseFloat(strings.TrimSpace(prices[i]), 64)
			if err != nil {
				return nil, errors.New("line prices must be numbers")
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (h *Handler) formData(r *http.Request) (map[string]any, error) {
	clientList, err := h.clients.List(r.Context(), clients.ListFilters{})
	if err != nil {
		return nil, err
	}
	supplierList, err := h.suppliers.List(r.Context())
	if err != nil {
		return nil, err
	}
	productList, err := h.products.List(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Clients":   clientList,
		"Suppliers": supplierList,
		"Products":  productList,
		"LineSlots": make([]int, lineSlotCount),
		"Errors":    map[string]string{},
	}, nil
}

func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, message string) {
	data, err := h.formData(r)
	if err != nil {
		h.logger.Error("reload order form failed", "error", err)
		http.Error(w, "Failed to load the order form", http.StatusInternalServerError)
		return
	}
	data["Errors"] = map[string]string{"general": message}
	h.render(w, r, "pages/orders/order_form.html", "New order", data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}
