package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"pizzeria-delivery/internal/models"
	"pizzeria-delivery/internal/shift"
)

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

// RenderCSV writes the report's records as a spreadsheet-friendly table,
// one row per delivery, oldest first so the sheet reads chronologically.
func RenderCSV(report *shift.ClosingReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"created_at", "courier", "neighborhood", "address", "payment_type", "order_value", "delivery_fee", "round_trip_km"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("reports.RenderCSV: %w", err)
	}

	for i := len(report.Records) - 1; i >= 0; i-- {
		rec := report.Records[i]
		km := ""
		if rec.RoundTripKm != nil {
			km = formatKm(*rec.RoundTripKm)
		}
		row := []string{
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.CourierName,
			rec.NeighborhoodName,
			rec.Address,
			models.PaymentTypeLabel(rec.PaymentType),
			rec.OrderValue.StringFixed(2),
			rec.DeliveryFee.StringFixed(2),
			km,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("reports.RenderCSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("reports.RenderCSV: %w", err)
	}
	return buf.Bytes(), nil
}

// The receipt rendering targets 32-column thermal printers, which is what
// the restaurant's counter hardware prints.
const receiptWidth = 32

const receiptTemplate = `{{center "FECHAMENTO DE CAIXA"}}
{{center .Date}}
{{rule}}
Entregas: {{.Summary.TotalDeliveries}}
Taxas:    R$ {{money .Summary.TotalDeliveryFees}}
Pedidos:  R$ {{money .Summary.TotalOrderValue}}
Km total: {{km .Summary.TotalKm}}
{{rule}}
{{range .PerCourierReports}}{{.CourierName}}
  Entregas: {{.TotalDeliveries}}
  Taxas:    R$ {{money .TotalDeliveryFees}}
  Pedidos:  R$ {{money .TotalOrderValue}}
  Km:       {{km .TotalKm}}
{{range $type, $count := .DeliveriesByType}}  {{label $type}}: {{$count}}
{{end}}{{rule}}
{{end}}`

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"center": centerLine,
	"rule":   func() string { return strings.Repeat("-", receiptWidth) },
	"money":  func(d decimal.Decimal) string { return d.StringFixed(2) },
	"km":     formatKm,
	"label":  models.PaymentTypeLabel,
}).Parse(receiptTemplate))

func centerLine(s string) string {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// RenderReceipt formats the report as plain text for thermal printing.
func RenderReceipt(report *shift.ClosingReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("reports.RenderReceipt: %w", err)
	}
	return buf.Bytes(), nil
}
