package analytichttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	"github.com/tradewind-bv/tradewind/internal/analytics/forecast"
	"github.com/tradewind-bv/tradewind/internal/masterdata/clients"
	"github.com/tradewind-bv/tradewind/internal/shared"
	"github.com/tradewind-bv/tradewind/internal/view"
)

type stubService struct {
	report  analytics.MarginReport
	history []forecast.MonthPoint
	result  forecast.Result
	err     error

	lastFilter analytics.MarginFilter
	lastMethod string
	lastOpts   analytics.RevenueOptions
}

func (s *stubService) Margin(_ context.Context, filter analytics.MarginFilter) (analytics.MarginReport, error) {
	s.lastFilter = filter
	return s.report, s.err
}

func (s *stubService) ForecastReport(_ context.Context, method string, opts analytics.RevenueOptions) ([]forecast.MonthPoint, forecast.Result, error) {
	s.lastMethod = method
	s.lastOpts = opts
	return s.history, s.result, s.err
}

func (s *stubService) DefaultMethod() string { return "seasonal" }

type stubClients struct{}

func (stubClients) List(context.Context, clients.ListFilters) ([]clients.Client, error) {
	return []clients.Client{{ID: 1, Name: "Nordwind GmbH"}}, nil
}

func newTestHandler(t *testing.T, svc *stubService) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc, stubClients{}, templates, shared.NewCSRFManager("test-secret"))
}

func marginFixture() analytics.MarginReport {
	pct := 83.5
	return analytics.MarginReport{
		Rows: []analytics.MarginRow{{
			OrderNr:   "2024-17",
			OrderDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Revenue:   1000,
			Margin:    835,
			MarginPct: &pct,
		}},
		TotalMargin:      835,
		AverageMargin:    835,
		AverageMarginPct: &pct,
	}
}

func TestMarginPage(t *testing.T) {
	svc := &stubService{report: marginFixture()}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/margin?year=2024&country=%20Germany%20&client_id=1", nil)
	rec := httptest.NewRecorder()
	h.MarginPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, svc.lastFilter.Year)
	assert.Equal(t, "Germany", svc.lastFilter.Country)
	assert.Equal(t, int64(1), svc.lastFilter.ClientID)
	body := rec.Body.String()
	assert.Contains(t, body, "2024-17")
	assert.Contains(t, body, "83.50%")
}

func TestMarginPageWithoutYear(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/margin", nil)
	rec := httptest.NewRecorder()
	h.MarginPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose a year")
}

func TestMarginCSV(t *testing.T) {
	svc := &stubService{report: marginFixture()}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/margin/export.csv?year=2024", nil)
	rec := httptest.NewRecorder()
	h.MarginCSV(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "margin-2024.csv")
	assert.Contains(t, rec.Body.String(), "2024-17")
}

func TestMarginCSVRequiresYear(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/reports/margin/export.csv", nil)
	rec := httptest.NewRecorder()
	h.MarginCSV(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastPage(t *testing.T) {
	svc := &stubService{
		history: []forecast.MonthPoint{
			{Month: "2024-01", Revenue: 40000},
			{Month: "2024-02", Revenue: 42000},
		},
		result: forecast.Result{
			Method:   "quick",
			Forecast: []forecast.MonthPoint{{Month: "2024-03", Revenue: 43000}},
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/forecast?method=quick&min_complete=500", nil)
	rec := httptest.NewRecorder()
	h.ForecastPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quick", svc.lastMethod)
	assert.Equal(t, 500.0, svc.lastOpts.MinClosedMonth)
	body := rec.Body.String()
	assert.Contains(t, body, "2024-03")
	assert.Contains(t, body, "<svg")
}

func TestForecastPageDefaultsMethod(t *testing.T) {
	svc := &stubService{
		history: []forecast.MonthPoint{{Month: "2024-01", Revenue: 40000}},
		result:  forecast.Result{Method: "seasonal"},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/forecast", nil)
	rec := httptest.NewRecorder()
	h.ForecastPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "seasonal", svc.lastMethod)
}

func TestForecastPageNotEnoughHistory(t *testing.T) {
	svc := &stubService{err: forecast.ErrNotEnoughHistory}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/reports/forecast", nil)
	rec := httptest.NewRecorder()
	h.ForecastPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough closed months")
}
