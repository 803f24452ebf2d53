package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

// Handler serves the webuser listing page.
type Handler struct {
	logger    *slog.Logger
	repo      *Repository
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo *Repository, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, repo: repo, templates: templates, csrf: csrf}
}

// MountRoutes registers the users routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	webusers, err := h.repo.ListWebUsers(r.Context())
	if err != nil {
		h.logger.Error("list webusers", slog.Any("error", err))
		http.Error(w, "Failed to load webusers", http.StatusInternalServerError)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Webusers",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        map[string]any{"Users": webusers},
	}
	if err := h.templates.Render(w, "pages/users_list.html", viewData); err != nil {
		h.logger.Error("render webusers", slog.Any("error", err))
	}
}
