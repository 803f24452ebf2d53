package forecast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatHistory builds count months of constant revenue starting 2022-01.
func flatHistory(count int, revenue float64) []MonthPoint {
	points := make([]MonthPoint, count)
	year, month := 2022, 1
	for i := range points {
		points[i] = MonthPoint{Month: fmt.Sprintf("%04d-%02d", year, month), Revenue: revenue}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return points
}

func TestFlatSeriesForecastsTheConstant(t *testing.T) {
	history := flatHistory(24, 5000)

	methods := []Method{Seasonal{}, NewSmoothing(0.4), Quick{}}
	for _, m := range methods {
		t.Run(m.Name(), func(t *testing.T) {
			result, err := m.Forecast(history)
			require.NoError(t, err)
			require.Len(t, result.Forecast, Horizon)
			for _, p := range result.Forecast {
				assert.InDelta(t, 5000, p.Revenue, 1e-6, "month %s", p.Month)
			}
		})
	}
}

func TestForecastMonthsFollowHistory(t *testing.T) {
	history := flatHistory(24, 5000) // ends 2023-12
	result, err := Quick{}.Forecast(history)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", result.Forecast[0].Month)
	assert.Equal(t, "2024-12", result.Forecast[11].Month)
}

func TestSeasonalFactorsAverageToOne(t *testing.T) {
	// 36 months with a pronounced December spike.
	history := flatHistory(36, 1000)
	for i := range history {
		if (i+1)%12 == 0 {
			history[i].Revenue = 3000
		}
	}
	months := make([]int, len(history))
	corrected := make([]float64, len(history))
	for i, p := range history {
		months[i] = (i % 12) + 1
		corrected[i] = p.Revenue
	}

	factors := seasonalFactors(corrected, months)
	var sum float64
	for _, f := range factors {
		sum += f
	}
	assert.InDelta(t, 1.0, sum/12, 1e-9)
	assert.Greater(t, factors[11], factors[0], "December should index above January")
}

func TestQuickFactorsSumToTwelve(t *testing.T) {
	history := flatHistory(30, 1000)
	history[5].Revenue = 4000
	history[17].Revenue = 4500

	months := make([]int, len(history))
	var overall float64
	for i, p := range history {
		months[i] = (i % 12) + 1
		overall += p.Revenue
	}
	overall /= float64(len(history))

	factors := quickFactors(history, months, overall)
	var sum float64
	for _, f := range factors {
		sum += f
	}
	assert.InDelta(t, 12.0, sum, 1e-9)
}

func TestSmoothingConstantSeries(t *testing.T) {
	history := []MonthPoint{
		{Month: "2024-01", Revenue: 100},
		{Month: "2024-02", Revenue: 100},
		{Month: "2024-03", Revenue: 100},
	}
	result, err := NewSmoothing(0.4).Forecast(history)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 3)
	assert.Nil(t, result.Diagnostics[0].Fitted, "first month has no fitted value")
	require.NotNil(t, result.Diagnostics[1].Fitted)
	assert.InDelta(t, 100, *result.Diagnostics[1].Fitted, 1e-9)

	require.Len(t, result.Forecast, Horizon)
	for _, p := range result.Forecast {
		assert.InDelta(t, 100, p.Revenue, 1e-9)
	}
}

func TestSmoothingAlphaClamped(t *testing.T) {
	assert.Equal(t, 0.3, NewSmoothing(0.1).Alpha)
	assert.Equal(t, 0.5, NewSmoothing(0.9).Alpha)
	assert.Equal(t, 0.4, NewSmoothing(0.4).Alpha)
}

func TestWinsorizeFlagsSpikes(t *testing.T) {
	history := flatHistory(24, 1000)
	history[10].Revenue = 250000

	corrected, outliers := winsorize(history)

	assert.True(t, outliers[10])
	assert.Less(t, corrected[10], 250000.0)
	for i := range history {
		if i == 10 {
			continue
		}
		assert.False(t, outliers[i], "month %d", i)
	}
}

func TestWinsorizeConstantSeriesUntouched(t *testing.T) {
	history := flatHistory(12, 777)
	corrected, outliers := winsorize(history)
	for i := range history {
		assert.False(t, outliers[i])
		assert.Equal(t, 777.0, corrected[i])
	}
}

func TestOLSFitRecoversLine(t *testing.T) {
	values := []float64{12, 14, 16, 18, 20}
	ok := []bool{true, true, true, true, true}
	a, b := olsFit(values, ok)
	assert.InDelta(t, 10, a, 1e-9)
	assert.InDelta(t, 2, b, 1e-9)
}

func TestOLSFitSkipsUndefinedPoints(t *testing.T) {
	values := []float64{0, 14, 16, 18, 0}
	ok := []bool{false, true, true, true, false}
	a, b := olsFit(values, ok)
	assert.InDelta(t, 10, a, 1e-9)
	assert.InDelta(t, 2, b, 1e-9)
}

func TestNotEnoughHistory(t *testing.T) {
	_, err := Seasonal{}.Forecast(nil)
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
	_, err = Quick{}.Forecast([]MonthPoint{{Month: "2024-01", Revenue: 10}})
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
	_, err = NewSmoothing(0.4).Forecast(nil)
	assert.ErrorIs(t, err, ErrNotEnoughHistory)
}
