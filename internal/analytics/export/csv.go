// Package export serialises report payloads for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tradewind-bv/tradewind/internal/analytics"
)

// WriteMarginCSV emits the margin report, one row per order plus a
// trailing totals row. The percentage column is blank when revenue was
// zero, mirroring the page.
func WriteMarginCSV(w io.Writer, report analytics.MarginReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"Order", "Date", "Revenue", "Production", "Inbound", "Storage", "Outbound", "License", "Margin", "Margin %"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.OrderNr,
			row.OrderDate.Format("2006-01-02"),
			formatFloat(row.Revenue),
			formatFloat(row.ProductionCost),
			formatFloat(row.InboundCost),
			formatFloat(row.StorageCost),
			formatFloat(row.OutboundCost),
			formatFloat(row.LicenseFee),
			formatFloat(row.Margin),
			formatOptional(row.MarginPct),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	totals := []string{"Total", "", "", "", "", "", "", "", formatFloat(report.TotalMargin), formatOptional(report.AverageMarginPct)}
	if err := writer.Write(totals); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
