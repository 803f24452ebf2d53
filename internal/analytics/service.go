package analytics

import (
	"context"
	"fmt"

	"github.com/tradewind-bv/tradewind/internal/analytics/forecast"
)

// Service runs the revenue, margin and forecast reports against the
// repository, caching results until the version is bumped by a write.
type Service struct {
	repo           Repository
	cache          *Cache
	minClosedMonth float64
	alpha          float64
	defaultMethod  string
}

// Options carries the configured report knobs.
type Options struct {
	MinClosedMonth float64
	SmoothingAlpha float64
	DefaultMethod  string
}

func NewService(repo Repository, cache *Cache, opts Options) *Service {
	if opts.MinClosedMonth <= 0 {
		opts.MinClosedMonth = 20000
	}
	if opts.SmoothingAlpha == 0 {
		opts.SmoothingAlpha = 0.4
	}
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = "seasonal"
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		minClosedMonth: opts.MinClosedMonth,
		alpha:          opts.SmoothingAlpha,
		defaultMethod:  opts.DefaultMethod,
	}
}

// DefaultMethod exposes the configured fallback method name.
func (s *Service) DefaultMethod() string {
	return s.defaultMethod
}

// MethodFor resolves a method name to its implementation, falling back
// to the configured default when the name is empty.
func (s *Service) MethodFor(name string) (forecast.Method, error) {
	if name == "" {
		name = s.defaultMethod
	}
	switch name {
	case "seasonal":
		return forecast.Seasonal{}, nil
	case "smoothing":
		return forecast.NewSmoothing(s.alpha), nil
	case "quick":
		return forecast.Quick{}, nil
	default:
		return nil, fmt.Errorf("analytics: unknown forecast method %q", name)
	}
}

// ForecastReport aggregates history and projects it with the named
// method. The returned history is the same series the method saw.
func (s *Service) ForecastReport(ctx context.Context, methodName string, opts RevenueOptions) ([]forecast.MonthPoint, forecast.Result, error) {
	method, err := s.MethodFor(methodName)
	if err != nil {
		return nil, forecast.Result{}, err
	}

	history, err := s.MonthlyRevenue(ctx, opts)
	if err != nil {
		return nil, forecast.Result{}, err
	}

	threshold := opts.MinClosedMonth
	if threshold <= 0 {
		threshold = s.minClosedMonth
	}

	loader := func(ctx context.Context) (interface{}, error) {
		result, err := method.Forecast(history)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return history, forecast.Result{}, err
		}
		return history, value.(forecast.Result), nil
	}

	key, err := s.cache.BuildKey(ctx, keyForecast(method.Name(), threshold))
	if err != nil {
		return nil, forecast.Result{}, err
	}
	var result forecast.Result
	if err := s.cache.FetchJSON(ctx, key, &result, loader); err != nil {
		return history, forecast.Result{}, err
	}
	return history, result, nil
}

// BumpCache invalidates all cached reports.
func (s *Service) BumpCache(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
