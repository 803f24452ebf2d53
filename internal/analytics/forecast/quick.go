package forecast

// Quick is the cheap seasonal method: per-calendar-month mean over the
// overall mean gives the factors (normalized to sum 12), the whole
// series is deseasonalized and fitted with OLS, and projections are
// floored at zero.
type Quick struct{}

func (Quick) Name() string { return "quick" }

func (Quick) Forecast(history []MonthPoint) (Result, error) {
	if len(history) < 2 {
		return Result{}, ErrNotEnoughHistory
	}

	months := make([]int, len(history))
	var overall float64
	for i, p := range history {
		t, err := parseMonth(p.Month)
		if err != nil {
			return Result{}, err
		}
		months[i] = int(t.Month())
		overall += p.Revenue
	}
	overall /= float64(len(history))

	factors := quickFactors(history, months, overall)

	deseason := make([]float64, len(history))
	defined := make([]bool, len(history))
	for i, p := range history {
		f := factors[months[i]-1]
		if f == 0 {
			continue
		}
		deseason[i] = p.Revenue / f
		defined[i] = true
	}
	intercept, slope := olsFit(deseason, defined)

	keys, futureCal, err := futureMonths(history)
	if err != nil {
		return Result{}, err
	}
	result := Result{Method: "quick"}
	n := len(history)
	for i, key := range keys {
		predicted := (intercept + slope*float64(n+i+1)) * factors[futureCal[i]-1]
		if predicted < 0 {
			predicted = 0
		}
		result.Forecast = append(result.Forecast, MonthPoint{Month: key, Revenue: predicted})
	}

	for i, p := range history {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Month:          p.Month,
			Actual:         p.Revenue,
			SeasonalFactor: ptr(factors[months[i]-1]),
		})
	}
	return result, nil
}

// quickFactors is month-mean over overall-mean, rescaled so the twelve
// factors sum to exactly 12. Months without history hold at 1 before
// rescaling.
func quickFactors(history []MonthPoint, months []int, overall float64) [12]float64 {
	sums := [12]float64{}
	counts := [12]int{}
	for i, p := range history {
		m := months[i] - 1
		sums[m] += p.Revenue
		counts[m]++
	}

	var factors [12]float64
	var total float64
	for m := 0; m < 12; m++ {
		if counts[m] > 0 && overall != 0 {
			factors[m] = (sums[m] / float64(counts[m])) / overall
		} else {
			factors[m] = 1
		}
		total += factors[m]
	}
	if total == 0 {
		for m := range factors {
			factors[m] = 1
		}
		return factors
	}
	for m := range factors {
		factors[m] *= 12 / total
	}
	return factors
}
