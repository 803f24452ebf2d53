package forecast

import "math"

// outlierZ is the z-score beyond which a log-scale revenue value is
// clipped to the boundary and flagged.
const outlierZ = 1.8

// centeredWindow is the width of the centered moving average used for
// seasonal ratios.
const centeredWindow = 12

// Seasonal is the full decomposition method: winsorize outliers on the
// log scale, derive per-calendar-month factors from the ratio to a
// centered moving average, fit a linear trend on the deseasonalized
// series, then recombine trend and factor for each projected month.
type Seasonal struct{}

func (Seasonal) Name() string { return "seasonal" }

func (Seasonal) Forecast(history []MonthPoint) (Result, error) {
	if len(history) < 2 {
		return Result{}, ErrNotEnoughHistory
	}

	months := make([]int, len(history))
	for i, p := range history {
		t, err := parseMonth(p.Month)
		if err != nil {
			return Result{}, err
		}
		months[i] = int(t.Month())
	}

	corrected, outliers := winsorize(history)

	factors := seasonalFactors(corrected, months)

	// Deseasonalize and fit the trend on every point with a usable factor.
	deseason := make([]float64, len(corrected))
	defined := make([]bool, len(corrected))
	for i, v := range corrected {
		f := factors[months[i]-1]
		if f == 0 {
			continue
		}
		deseason[i] = v / f
		defined[i] = true
	}
	intercept, slope := olsFit(deseason, defined)

	keys, futureCal, err := futureMonths(history)
	if err != nil {
		return Result{}, err
	}
	result := Result{Method: "seasonal"}
	n := len(history)
	for i, key := range keys {
		predicted := (intercept + slope*float64(n+i+1)) * factors[futureCal[i]-1]
		result.Forecast = append(result.Forecast, MonthPoint{Month: key, Revenue: predicted})
	}

	for i, p := range history {
		d := Diagnostic{
			Month:          p.Month,
			Actual:         p.Revenue,
			Corrected:      ptr(corrected[i]),
			SeasonalFactor: ptr(factors[months[i]-1]),
			Outlier:        outliers[i],
		}
		result.Diagnostics = append(result.Diagnostics, d)
	}
	return result, nil
}

// winsorize clips revenue on the ln(x+1) scale at outlierZ standard
// deviations and maps back. A constant series has zero deviation and
// passes through untouched.
func winsorize(history []MonthPoint) ([]float64, []bool) {
	logs := make([]float64, len(history))
	for i, p := range history {
		logs[i] = math.Log(p.Revenue + 1)
	}

	var mean float64
	for _, v := range logs {
		mean += v
	}
	mean /= float64(len(logs))

	var variance float64
	for _, v := range logs {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(logs)))

	corrected := make([]float64, len(history))
	outliers := make([]bool, len(history))
	for i, p := range history {
		corrected[i] = p.Revenue
		if std == 0 {
			continue
		}
		z := (logs[i] - mean) / std
		if math.Abs(z) > outlierZ {
			outliers[i] = true
			clipped := mean + math.Copysign(outlierZ*std, z)
			corrected[i] = math.Exp(clipped) - 1
		}
	}
	return corrected, outliers
}

// seasonalFactors derives the 12 calendar-month factors from the ratio
// of each corrected value to its centered moving average, normalized so
// the factors average to 1. Calendar months without an observable ratio
// hold at 1 before normalization.
func seasonalFactors(corrected []float64, months []int) [12]float64 {
	sums := [12]float64{}
	counts := [12]int{}

	// Centered window: the value itself, the preceding half window and
	// the remainder after it. Edges with partial coverage contribute no
	// ratio.
	half := centeredWindow / 2
	for i := range corrected {
		lo := i - half
		hi := lo + centeredWindow
		if lo < 0 || hi > len(corrected) {
			continue
		}
		var avg float64
		for j := lo; j < hi; j++ {
			avg += corrected[j]
		}
		avg /= centeredWindow
		if avg == 0 {
			continue
		}
		m := months[i] - 1
		sums[m] += corrected[i] / avg
		counts[m]++
	}

	var factors [12]float64
	var total float64
	for m := 0; m < 12; m++ {
		if counts[m] > 0 {
			factors[m] = sums[m] / float64(counts[m])
		} else {
			factors[m] = 1
		}
		total += factors[m]
	}
	mean := total / 12
	if mean == 0 {
		for m := range factors {
			factors[m] = 1
		}
		return factors
	}
	for m := range factors {
		factors[m] /= mean
	}
	return factors
}
