package view

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	"github.com/tradewind-bv/tradewind/internal/shared"
)

func TestNewEngineParsesAllPages(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	pages := []string{
		"pages/landing.html",
		"pages/login.html",
		"pages/register.html",
		"pages/home.html",
		"pages/users_list.html",
		"pages/masterdata/clients_list.html",
		"pages/masterdata/suppliers_list.html",
		"pages/masterdata/brands_list.html",
		"pages/masterdata/products_list.html",
		"pages/orders/orders_list.html",
		"pages/orders/order_form.html",
		"pages/reports/costs.html",
		"pages/reports/margin.html",
		"pages/reports/forecast.html",
	}
	for _, name := range pages {
		assert.NotNil(t, engine.templates.Lookup(name), name)
	}
}

func TestRenderLandingPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/landing.html", TemplateData{
		Title: "Tradewind",
		Flash: &shared.FlashMessage{Kind: "success", Message: "signed out"},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Back office for the trading desk")
	assert.Contains(t, rec.Body.String(), "signed out")
}

func TestRenderMarginAbsentPercentages(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	report := analytics.MarginReport{
		Rows: []analytics.MarginRow{{
			OrderNr:   "TW-200601-001",
			OrderDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		}},
	}

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/reports/margin.html", TemplateData{
		Title: "Margin report",
		Data: map[string]any{
			"Filters": map[string]any{"Year": 2024, "YearRaw": "2024", "Country": "", "ClientID": int64(0)},
			"Clients": nil,
			"Report":  report,
			"Query":   "year=2024",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "n/a")
	assert.NotContains(t, rec.Body.String(), "\u2014")
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	err := engine.Render(httptest.NewRecorder(), "pages/landing.html", TemplateData{})
	assert.Error(t, err)
}
