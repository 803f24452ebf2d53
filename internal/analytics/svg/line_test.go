package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryForecastRendersBothSeries(t *testing.T) {
	history := []float64{100, 120, 90}
	future := []float64{110, 110}
	labels := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05"}

	out, err := HistoryForecast(0, 0, history, future, labels, Opts{Title: "Revenue"})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<svg"))
	assert.Contains(t, s, "stroke-dasharray=\"6,4\"", "forecast line should be dashed")
	assert.Contains(t, s, "Actual")
	assert.Contains(t, s, "Forecast")
}

func TestHistoryForecastLabelMismatch(t *testing.T) {
	_, err := HistoryForecast(0, 0, []float64{1}, []float64{2}, []string{"only-one"}, Opts{})
	assert.Error(t, err)
}

func TestHistoryForecastEmpty(t *testing.T) {
	_, err := HistoryForecast(0, 0, nil, nil, nil, Opts{})
	assert.Error(t, err)
}

func TestHistoryForecastEscapesTitle(t *testing.T) {
	out, err := HistoryForecast(0, 0, []float64{1, 2}, nil, []string{"a", "b"}, Opts{Title: "<script>"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}
