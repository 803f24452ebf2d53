package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/analytics/forecast"
)

type stubRepository struct {
	months     []MonthRow
	marginRows []OrderCostRow

	monthlyCalls int
	marginCalls  int
}

func (s *stubRepository) MonthlyRevenue(_ context.Context) ([]MonthRow, error) {
	s.monthlyCalls++
	return s.months, nil
}

func (s *stubRepository) MarginRows(_ context.Context, _ MarginFilter) ([]OrderCostRow, error) {
	s.marginCalls++
	return s.marginRows, nil
}

func TestMonthlyRevenueSeries(t *testing.T) {
	repo := &stubRepository{months: []MonthRow{
		{Month: "2024-01", Revenue: 120},
		{Month: "2024-02", Revenue: 30},
	}}
	svc := NewService(repo, nil, Options{MinClosedMonth: 1})

	points, err := svc.MonthlyRevenue(context.Background(), RevenueOptions{})
	require.NoError(t, err)
	assert.Equal(t, []forecast.MonthPoint{
		{Month: "2024-01", Revenue: 120},
		{Month: "2024-02", Revenue: 30},
	}, points)
}

func TestMonthlyRevenueDropsAccumulatingTail(t *testing.T) {
	repo := &stubRepository{months: []MonthRow{
		{Month: "2024-01", Revenue: 50000},
		{Month: "2024-02", Revenue: 61000},
		{Month: "2024-03", Revenue: 4000},
	}}
	svc := NewService(repo, nil, Options{})

	points, err := svc.MonthlyRevenue(context.Background(), RevenueOptions{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-02", points[1].Month)
}

func TestMonthlyRevenuePerRequestThreshold(t *testing.T) {
	repo := &stubRepository{months: []MonthRow{
		{Month: "2024-01", Revenue: 50000},
		{Month: "2024-02", Revenue: 4000},
	}}
	svc := NewService(repo, nil, Options{})

	points, err := svc.MonthlyRevenue(context.Background(), RevenueOptions{MinClosedMonth: 100})
	require.NoError(t, err)
	assert.Len(t, points, 2, "a low override keeps the tail month")
}

func TestMarginWithoutYearIsPlaceholder(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, nil, Options{})

	report, err := svc.Margin(context.Background(), MarginFilter{})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Zero(t, repo.marginCalls)
}

func TestMethodForResolution(t *testing.T) {
	svc := NewService(&stubRepository{}, nil, Options{SmoothingAlpha: 0.45, DefaultMethod: "quick"})

	m, err := svc.MethodFor("")
	require.NoError(t, err)
	assert.Equal(t, "quick", m.Name())

	m, err = svc.MethodFor("smoothing")
	require.NoError(t, err)
	assert.Equal(t, 0.45, m.(forecast.Smoothing).Alpha)

	_, err = svc.MethodFor("prophet")
	assert.Error(t, err)
}

func TestForecastReportFlatSeries(t *testing.T) {
	months := make([]MonthRow, 0, 24)
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		months = append(months, MonthRow{Month: base.AddDate(0, i, 0).Format("2006-01"), Revenue: 30000})
	}
	svc := NewService(&stubRepository{months: months}, nil, Options{})

	history, result, err := svc.ForecastReport(context.Background(), "seasonal", RevenueOptions{})
	require.NoError(t, err)
	assert.Len(t, history, 24)
	require.Len(t, result.Forecast, forecast.Horizon)
	for _, p := range result.Forecast {
		assert.InDelta(t, 30000, p.Revenue, 1e-6)
	}
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func TestCacheServesSecondRead(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &stubRepository{months: []MonthRow{{Month: "2024-01", Revenue: 50000}}}
	svc := NewService(repo, cache, Options{})

	ctx := context.Background()
	_, err := svc.MonthlyRevenue(ctx, RevenueOptions{})
	require.NoError(t, err)
	_, err = svc.MonthlyRevenue(ctx, RevenueOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.monthlyCalls)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	repo := &stubRepository{months: []MonthRow{{Month: "2024-01", Revenue: 50000}}}
	svc := NewService(repo, cache, Options{})

	ctx := context.Background()
	_, err := svc.MonthlyRevenue(ctx, RevenueOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.BumpCache(ctx))
	_, err = svc.MonthlyRevenue(ctx, RevenueOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.monthlyCalls)
}

func TestNilCacheIsPassThrough(t *testing.T) {
	var cache *Cache
	err := cache.FetchJSON(context.Background(), "k", &[]MonthRow{}, func(context.Context) (interface{}, error) {
		return []MonthRow{{Month: "2024-01", Revenue: 10}}, nil
	})
	assert.NoError(t, err)
	assert.NoError(t, cache.Bump(context.Background()))
}
