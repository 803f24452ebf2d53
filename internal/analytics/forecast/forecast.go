// Package forecast projects monthly revenue twelve months ahead. Three
// interchangeable methods are provided; all of them consume the same
// aggregated history and emit the same result shape so the report page
// can switch between them with a query parameter.
package forecast

import (
	"errors"
	"fmt"
	"time"
)

// Horizon is how many months past the last historical month are projected.
const Horizon = 12

// MonthPoint pairs a "YYYY-MM" month key with a revenue amount.
type MonthPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Diagnostic describes what a method did to one historical month. Fields
// that a method does not compute stay nil.
type Diagnostic struct {
	Month          string   `json:"month"`
	Actual         float64  `json:"actual"`
	Corrected      *float64 `json:"corrected,omitempty"`
	SeasonalFactor *float64 `json:"seasonal_factor,omitempty"`
	Fitted         *float64 `json:"fitted,omitempty"`
	Outlier        bool     `json:"outlier,omitempty"`
}

// Result is a 12-month projection plus the method's working table.
type Result struct {
	Method      string       `json:"method"`
	Forecast    []MonthPoint `json:"forecast"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Method produces a Result from ascending monthly history.
type Method interface {
	Name() string
	Forecast(history []MonthPoint) (Result, error)
}

// ErrNotEnoughHistory is returned when a method cannot work with the
// series it was given.
var ErrNotEnoughHistory = errors.New("forecast: not enough history")

func parseMonth(key string) (time.Time, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return time.Time{}, fmt.Errorf("forecast: bad month key %q: %w", key, err)
	}
	return t, nil
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// futureMonths returns the Horizon month keys following the last history
// entry, together with their calendar months (1-12).
func futureMonths(history []MonthPoint) ([]string, []int, error) {
	last, err := parseMonth(history[len(history)-1].Month)
	if err != nil {
		return nil, nil, err
	}
	keys := make([]string, Horizon)
	months := make([]int, Horizon)
	for i := 0; i < Horizon; i++ {
		next := last.AddDate(0, i+1, 0)
		keys[i] = monthKey(next)
		months[i] = int(next.Month())
	}
	return keys, months, nil
}

// olsFit fits y = a + b*t by ordinary least squares over the points where
// ok[i] is true, with t the 1-based series index. A degenerate fit (fewer
// than two points, or all at one index) falls back to a flat line at the
// mean.
func olsFit(values []float64, ok []bool) (a, b float64) {
	var n, sumT, sumY, sumTT, sumTY float64
	for i, v := range values {
		if !ok[i] {
			continue
		}
		t := float64(i + 1)
		n++
		sumT += t
		sumY += v
		sumTT += t * t
		sumTY += t * v
	}
	if n == 0 {
		return 0, 0
	}
	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return sumY / n, 0
	}
	b = (n*sumTY - sumT*sumY) / denom
	a = (sumY - b*sumT) / n
	return a, b
}

func ptr(v float64) *float64 { return &v }
