package analytics

import (
	"context"

	"github.com/tradewind-bv/tradewind/internal/analytics/forecast"
)

// RevenueOptions tunes the monthly aggregation. MinClosedMonth is the
// completeness threshold: when the latest month's total falls below it,
// that month is treated as still accumulating and dropped. Zero means
// use the service default.
type RevenueOptions struct {
	MinClosedMonth float64
}

// MonthlyRevenue returns the ascending per-month revenue series. Months
// without orders are absent, not zero-filled.
func (s *Service) MonthlyRevenue(ctx context.Context, opts RevenueOptions) ([]forecast.MonthPoint, error) {
	threshold := opts.MinClosedMonth
	if threshold <= 0 {
		threshold = s.minClosedMonth
	}

	loader := func(ctx context.Context) (interface{}, error) {
		rows, err := s.repo.MonthlyRevenue(ctx)
		if err != nil {
			return nil, err
		}
		return aggregateMonths(rows, threshold), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]forecast.MonthPoint), nil
	}

	key, err := s.cache.BuildKey(ctx, keyMonthlyRevenue(threshold))
	if err != nil {
		return nil, err
	}
	var points []forecast.MonthPoint
	if err := s.cache.FetchJSON(ctx, key, &points, loader); err != nil {
		return nil, err
	}
	return points, nil
}

// aggregateMonths applies the completeness cutoff to the tail month.
// Rows arrive sorted ascending from SQL.
func aggregateMonths(rows []MonthRow, minClosedMonth float64) []forecast.MonthPoint {
	points := make([]forecast.MonthPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, forecast.MonthPoint{Month: row.Month, Revenue: row.Revenue})
	}
	if n := len(points); n > 0 && points[n-1].Revenue < minClosedMonth {
		points = points[:n-1]
	}
	return points
}
