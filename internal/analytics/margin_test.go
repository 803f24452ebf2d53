package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMarginSingleOrder(t *testing.T) {
	// One order, paid 1000, ten units of a product costing 5 + 1 + 0.5
	// per unit, 10% license fee, no outbound cost.
	rows := []OrderCostRow{{
		OrderNr:            "2024-01",
		OrderDate:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ClientID:           1,
		Revenue:            1000,
		ProductionCost:     50,
		InboundCost:        10,
		StorageCost:        5,
		OutboundUnitCost:   0,
		OrderQuantity:      10,
		LicenseFeeFraction: 0.1,
		ClientOrdersInYear: 1,
	}}

	report := ComputeMargin(rows)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.InDelta(t, 835, row.Margin, 1e-9)
	require.NotNil(t, row.MarginPct)
	assert.InDelta(t, 83.5, *row.MarginPct, 1e-9)
	assert.InDelta(t, 835, report.TotalMargin, 1e-9)
	assert.InDelta(t, 835, report.AverageMargin, 1e-9)
	require.NotNil(t, report.AverageMarginPct)
	assert.InDelta(t, 83.5, *report.AverageMarginPct, 1e-9)
}

func TestComputeMarginApportionsOutboundCost(t *testing.T) {
	// The client's outbound unit cost spreads over their yearly orders.
	rows := []OrderCostRow{{
		OrderNr:            "A",
		Revenue:            500,
		OutboundUnitCost:   2,
		OrderQuantity:      100,
		ClientOrdersInYear: 4,
	}}

	report := ComputeMargin(rows)

	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 50, report.Rows[0].OutboundCost, 1e-9) // 2*100/4
	assert.InDelta(t, 450, report.Rows[0].Margin, 1e-9)
}

func TestComputeMarginZeroRevenueHasNoPct(t *testing.T) {
	rows := []OrderCostRow{{
		OrderNr:            "A",
		Revenue:            0,
		ProductionCost:     10,
		OrderQuantity:      2,
		ClientOrdersInYear: 1,
	}}

	report := ComputeMargin(rows)

	require.Len(t, report.Rows, 1)
	assert.Nil(t, report.Rows[0].MarginPct)
	assert.Nil(t, report.AverageMarginPct)
	assert.InDelta(t, -10, report.Rows[0].Margin, 1e-9)
}

func TestComputeMarginEmptyInput(t *testing.T) {
	report := ComputeMargin(nil)

	assert.Empty(t, report.Rows)
	assert.Zero(t, report.TotalMargin)
	assert.Zero(t, report.AverageMargin)
	assert.Nil(t, report.AverageMarginPct)
}

func TestComputeMarginSkipsZeroOrderCountRows(t *testing.T) {
	rows := []OrderCostRow{{
		OrderNr:            "A",
		Revenue:            100,
		OrderQuantity:      1,
		ClientOrdersInYear: 0,
	}}

	report := ComputeMargin(rows)

	assert.Empty(t, report.Rows)
	assert.Zero(t, report.TotalMargin)
}

func TestComputeMarginRoundsPctAtPresentation(t *testing.T) {
	rows := []OrderCostRow{{
		OrderNr:            "A",
		Revenue:            300,
		ProductionCost:     100,
		OrderQuantity:      1,
		ClientOrdersInYear: 1,
	}}

	report := ComputeMargin(rows)

	require.NotNil(t, report.Rows[0].MarginPct)
	assert.Equal(t, 66.67, *report.Rows[0].MarginPct)
}
