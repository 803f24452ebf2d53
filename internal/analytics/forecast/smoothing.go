package forecast

// Smoothing is simple exponential smoothing without seasonality. The
// level starts at the first observation; each month's fitted value is
// the level computed from strictly earlier months, and the 12 projected
// months all carry the final level.
type Smoothing struct {
	Alpha float64
}

// NewSmoothing clamps alpha into the accepted 0.3..0.5 band.
func NewSmoothing(alpha float64) Smoothing {
	if alpha < 0.3 {
		alpha = 0.3
	}
	if alpha > 0.5 {
		alpha = 0.5
	}
	return Smoothing{Alpha: alpha}
}

func (Smoothing) Name() string { return "smoothing" }

func (s Smoothing) Forecast(history []MonthPoint) (Result, error) {
	if len(history) == 0 {
		return Result{}, ErrNotEnoughHistory
	}
	alpha := s.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.4
	}

	result := Result{Method: "smoothing"}

	level := history[0].Revenue
	for i, p := range history {
		d := Diagnostic{Month: p.Month, Actual: p.Revenue}
		if i > 0 {
			// Fitted value is the level before this observation folds in.
			d.Fitted = ptr(level)
		}
		level = alpha*p.Revenue + (1-alpha)*level
		result.Diagnostics = append(result.Diagnostics, d)
	}

	keys, _, err := futureMonths(history)
	if err != nil {
		return Result{}, err
	}
	for _, key := range keys {
		result.Forecast = append(result.Forecast, MonthPoint{Month: key, Revenue: level})
	}
	return result, nil
}
