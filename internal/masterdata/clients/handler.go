package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Name:          q.Get("name"),
		Country:       q.Get("country"),
		Sort:          q.Get("sort"),
		MinRevenueRaw: q.Get("min_rev"),
		MaxRevenueRaw: q.Get("max_rev"),
	}
	// Unparsable bounds are ignored rather than failing the page.
	if v, err := strconv.ParseFloat(strings.TrimSpace(filters.MinRevenueRaw), 64); err == nil {
		filters.MinRevenue = &v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(filters.MaxRevenueRaw), 64); err == nil {
		filters.MaxRevenue = &v
	}

	list, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list clients failed", "error", err)
		http.Error(w, "Failed to load clients", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/masterdata/clients_list.html", map[string]any{
		"Clients": list,
		"Filters": filters,
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	client := Client{
		Name:        r.PostFormValue("name"),
		Country:     r.PostFormValue("country"),
		PostalCode:  r.PostFormValue("postal_code"),
		City:        r.PostFormValue("city"),
		Street:      r.PostFormValue("street"),
		HouseNumber: r.PostFormValue("house_number"),
		VATNumber:   r.PostFormValue("vat_number"),
		Email:       r.PostFormValue("email"),
	}
	if raw := strings.TrimSpace(r.PostFormValue("outbound_transport_cost")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.redirectWithFlash(w, r, "/masterdata/clients", "error", "Outbound cost must be a number")
			return
		}
		client.OutboundTransportCost = &v
	}

	if _, err := h.service.Create(r.Context(), client); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.redirectWithFlash(w, r, "/masterdata/clients", "error", "A client with that name already exists")
			return
		}
		h.redirectWithFlash(w, r, "/masterdata/clients", "error", err.Error())
		return
	}

	h.redirectWithFlash(w, r, "/masterdata/clients", "success", "Client created")
}

func (h *Handler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	if err := h.service.DeleteByName(r.Context(), name); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.redirectWithFlash(w, r, "/masterdata/clients", "error", "No client named "+name)
			return
		}
		h.logger.Error("delete client", "error", err, "name", name)
		h.redirectWithFlash(w, r, "/masterdata/clients", "error", "Could not delete the client")
		return
	}
	h.redirectWithFlash(w, r, "/masterdata/clients", "success", "Client deleted")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Clients",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	w.WriteHeader(status)
	if err := h.templates.Render(w, template, viewData); err != nil {
		h.logger.Error("render template", "error", err, "template", template)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
