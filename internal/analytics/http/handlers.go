// Package analytichttp serves the report pages: margin, forecast and
// the CSV download.
package analytichttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	"github.com/tradewind-bv/tradewind/internal/analytics/export"
	"github.com/tradewind-bv/tradewind/internal/analytics/forecast"
	"github.com/tradewind-bv/tradewind/internal/analytics/svg"
	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

// ReportService is the slice of the analytics service the handlers use.
type ReportService interface {
	Margin(ctx context.Context, filter analytics.MarginFilter) (analytics.MarginReport, error)
	ForecastReport(ctx context.Context, method string, opts analytics.RevenueOptions) ([]forecast.MonthPoint, forecast.Result, error)
	DefaultMethod() string
}

// ClientLister supplies the client dropdown on the margin page.
type ClientLister interface {
	List(ctx context.Context, filters clients.ListFilters) ([]clients.Client, error)
}

type Handler struct {
	logger    *slog.Logger
	service   ReportService
	clients   ClientLister
	templates *view.Engine
	csrf      *shared.CSRFManager
}

func NewHandler(logger *slog.Logger, service ReportService, clientSvc ClientLister, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, clients: clientSvc, templates: templates, csrf: csrf}
}

type marginFilters struct {
	Year     int
	YearRaw  string
	Country  string
	ClientID int64
}

func parseMarginFilters(q url.Values) marginFilters {
	f := marginFilters{
		YearRaw: strings.TrimSpace(q.Get("year")),
		Country: strings.TrimSpace(q.Get("country")),
	}
	f.Year, _ = strconv.Atoi(f.YearRaw)
	f.ClientID, _ = strconv.ParseInt(q.Get("client_id"), 10, 64)
	return f
}

func (f marginFilters) toFilter() analytics.MarginFilter {
	return analytics.MarginFilter{Year: f.Year, Country: f.Country, ClientID: f.ClientID}
}

func (f marginFilters) query() string {
	values := url.Values{}
	values.Set("year", f.YearRaw)
	if f.Country != "" {
		values.Set("country", f.Country)
	}
	if f.ClientID > 0 {
		values.Set("client_id", strconv.FormatInt(f.ClientID, 10))
	}
	return values.Encode()
}

func (h *Handler) MarginPage(w http.ResponseWriter, r *http.Request) {
	filters := parseMarginFilters(r.URL.Query())

	// The page needs the report and the client dropdown; fetch them
	// concurrently.
	var report analytics.MarginReport
	var clientList []clients.Client
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		report, err = h.service.Margin(ctx, filters.toFilter())
		return err
	})
	g.Go(func() error {
		var err error
		clientList, err = h.clients.List(ctx, clients.ListFilters{})
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("margin report failed", "error", err)
		http.Error(w, "Failed to build the margin report", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/reports/margin.html", "Margin report", map[string]any{
		"Filters": filters,
		"Clients": clientList,
		"Report":  report,
		"Query":   filters.query(),
	})
}

func (h *Handler) MarginCSV(w http.ResponseWriter, r *http.Request) {
	filters := parseMarginFilters(r.URL.Query())
	if filters.Year == 0 {
		http.Error(w, "A year is required", http.StatusBadRequest)
		return
	}

	report, err := h.service.Margin(r.Context(), filters.toFilter())
	if err != nil {
		h.logger.Error("margin export failed", "error", err)
		http.Error(w, "Failed to build the margin report", http.StatusInternalServerError)
		return
	}

	filename := "margin-" + strconv.Itoa(filters.Year) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteMarginCSV(w, report); err != nil {
		h.logger.Error("margin csv write failed", "error", err)
	}
}

func (h *Handler) ForecastPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	method := q.Get("method")
	if method == "" {
		method = h.service.DefaultMethod()
	}
	minCompleteRaw := strings.TrimSpace(q.Get("min_complete"))
	opts := analytics.RevenueOptions{}
	if v, err := strconv.ParseFloat(minCompleteRaw, 64); err == nil && v > 0 {
		opts.MinClosedMonth = v
	}

	data := map[string]any{
		"Method":         method,
		"MinCompleteRaw": minCompleteRaw,
	}

	history, result, err := h.service.ForecastReport(r.Context(), method, opts)
	data["History"] = history
	switch {
	case errors.Is(err, forecast.ErrNotEnoughHistory):
		data["Error"] = "Not enough closed months to forecast yet."
	case err != nil:
		h.logger.Error("forecast failed", "error", err, "method", method)
		http.Error(w, "Failed to build the forecast", http.StatusInternalServerError)
		return
	default:
		data["Forecast"] = result.Forecast
		data["Diagnostics"] = result.Diagnostics
		if chart, chartErr := buildChart(history, result.Forecast); chartErr == nil {
			data["Chart"] = chart
		}
	}

	h.render(w, r, "pages/reports/forecast.html", "Revenue forecast", data)
}

func buildChart(history []forecast.MonthPoint, future []forecast.MonthPoint) (interface{}, error) {
	actual := make([]float64, len(history))
	labels := make([]string, 0, len(history)+len(future))
	for i, p := range history {
		actual[i] = p.Revenue
		labels = append(labels, p.Month)
	}
	projected := make([]float64, len(future))
	for i, p := range future {
		projected[i] = p.Revenue
		labels = append(labels, p.Month)
	}
	return svg.HistoryForecast(0, 0, actual, projected, labels, svg.Opts{
		Title:       "Revenue forecast",
		Description: "Monthly revenue history with a 12-month projection",
	})
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
