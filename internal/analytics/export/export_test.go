package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/analytics"
)

func TestWriteMarginCSV(t *testing.T) {
	pct := 83.5
	report := analytics.MarginReport{
		Rows: []analytics.MarginRow{{
			OrderNr:        "2024-17",
			OrderDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Revenue:        1000,
			ProductionCost: 50,
			InboundCost:    10,
			StorageCost:    5,
			LicenseFee:     100,
			Margin:         835,
			MarginPct:      &pct,
		}},
		TotalMargin:      835,
		AverageMarginPct: &pct,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMarginCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Order", records[0][0])
	assert.Equal(t, "2024-17", records[1][0])
	assert.Equal(t, "2024-03-15", records[1][1])
	assert.Equal(t, "835.00", records[1][8])
	assert.Equal(t, "83.50", records[1][9])
	assert.Equal(t, "Total", records[2][0])
	assert.Equal(t, "835.00", records[2][8])
}

func TestWriteMarginCSVBlankPctWhenNoRevenue(t *testing.T) {
	report := analytics.MarginReport{
		Rows: []analytics.MarginRow{{OrderNr: "A", Margin: -10}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMarginCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "", records[1][9])
	assert.Equal(t, "", records[2][9])
}
