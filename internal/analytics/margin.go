package analytics

import (
	"context"
	"math"
	"time"
)

// MarginRow is one order's margin decomposition. MarginPct is nil when
// the order has zero revenue, so the page shows an absent value instead
// of NaN.
type MarginRow struct {
	OrderNr        string    `json:"order_nr"`
	OrderDate      time.Time `json:"order_date"`
	Revenue        float64   `json:"revenue"`
	ProductionCost float64   `json:"production_cost"`
	InboundCost    float64   `json:"inbound_cost"`
	StorageCost    float64   `json:"storage_cost"`
	OutboundCost   float64   `json:"outbound_cost"`
	LicenseFee     float64   `json:"license_fee"`
	Margin         float64   `json:"margin"`
	MarginPct      *float64  `json:"margin_pct"`
}

// MarginReport is the per-order rows plus the aggregates over them.
type MarginReport struct {
	Rows             []MarginRow `json:"rows"`
	TotalMargin      float64     `json:"total_margin"`
	AverageMargin    float64     `json:"average_margin"`
	AverageMarginPct *float64    `json:"average_margin_pct"`
}

// ComputeMargin builds the report from the raw order cost rows.
// The outbound transport cost is a per-client yearly figure apportioned
// by order quantity over the client's order count for the year; a
// client with no counted orders contributes no rows at all, which keeps
// the division guarded.
func ComputeMargin(rows []OrderCostRow) MarginReport {
	report := MarginReport{}
	var pctSum float64
	var pctCount int

	for _, row := range rows {
		if row.ClientOrdersInYear == 0 {
			continue
		}
		outbound := row.OutboundUnitCost * row.OrderQuantity / float64(row.ClientOrdersInYear)
		license := row.LicenseFeeFraction * row.Revenue
		margin := row.Revenue - row.ProductionCost - row.InboundCost - row.StorageCost - outbound - license

		out := MarginRow{
			OrderNr:        row.OrderNr,
			OrderDate:      row.OrderDate,
			Revenue:        row.Revenue,
			ProductionCost: row.ProductionCost,
			InboundCost:    row.InboundCost,
			StorageCost:    row.StorageCost,
			OutboundCost:   outbound,
			LicenseFee:     license,
			Margin:         margin,
		}
		if row.Revenue != 0 {
			pct := roundTo(margin/row.Revenue*100, 2)
			out.MarginPct = &pct
			pctSum += pct
			pctCount++
		}
		report.Rows = append(report.Rows, out)
		report.TotalMargin += margin
	}

	if len(report.Rows) > 0 {
		report.AverageMargin = report.TotalMargin / float64(len(report.Rows))
	}
	if pctCount > 0 {
		avg := roundTo(pctSum/float64(pctCount), 2)
		report.AverageMarginPct = &avg
	}
	return report
}

// Margin runs the report for the filter. A missing year short-circuits
// into the empty placeholder without touching the database.
func (s *Service) Margin(ctx context.Context, filter MarginFilter) (MarginReport, error) {
	if filter.Year == 0 {
		return MarginReport{}, nil
	}

	loader := func(ctx context.Context) (interface{}, error) {
		rows, err := s.repo.MarginRows(ctx, filter)
		if err != nil {
			return nil, err
		}
		return ComputeMargin(rows), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return MarginReport{}, err
		}
		return value.(MarginReport), nil
	}

	key, err := s.cache.BuildKey(ctx, keyMargin(filter))
	if err != nil {
		return MarginReport{}, err
	}
	var report MarginReport
	if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
		return MarginReport{}, err
	}
	return report, nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
