package shift

import (
	"pizzeria-delivery/internal/models"

	"github.com/shopspring/decimal"
)

// Summary holds the overall totals for a filtered record set. Monetary
// totals are decimals so repeated additions cannot accumulate binary
// floating-point drift.
type Summary struct {
	TotalDeliveries   int             `json:"totalDeliveries"`
	TotalDeliveryFees decimal.Decimal `json:"totalDeliveryFees"`
	TotalOrderValue   decimal.Decimal `json:"totalOrderValue"`
	TotalKm           float64         `json:"totalKm"`
}

// DelivererReport is the per-courier aggregate: the same four totals as
// Summary scoped to one courier, plus count and value breakdowns keyed by
// payment type.
type DelivererReport struct {
	CourierID         string                     `json:"delivererId"`
	CourierName       string                     `json:"delivererName"`
	TotalDeliveries   int                        `json:"totalDeliveries"`
	TotalDeliveryFees decimal.Decimal            `json:"totalDeliveryFees"`
	TotalOrderValue   decimal.Decimal            `json:"totalOrderValue"`
	TotalKm           float64                    `json:"totalKm"`
	DeliveriesByType  map[string]int             `json:"deliveriesByType"`
	ValuesByType      map[string]decimal.Decimal `json:"valuesByType"`
}

// Aggregate folds records into overall totals and one report per distinct
// courier. A single pass; per-courier reports come out in first-seen order
// over the input, so with newest-first input the courier with the most
// recent delivery leads. Sums are order-independent.
//
// Missing round-trip distances contribute zero to km totals. Empty input
// yields zero-valued structures, never an error.
func Aggregate(records []models.Delivery) (Summary, []DelivererReport) {
	summary := Summary{
		TotalDeliveryFees: decimal.Zero,
		TotalOrderValue:   decimal.Zero,
	}

	byCourier := make(map[string]*DelivererReport)
	order := make([]string, 0)

	for _, rec := range records {
		report, ok := byCourier[rec.CourierID]
		if !ok {
			report = &DelivererReport{
				CourierID:         rec.CourierID,
				CourierName:       rec.CourierName,
				TotalDeliveryFees: decimal.Zero,
				TotalOrderValue:   decimal.Zero,
				DeliveriesByType:  make(map[string]int),
				ValuesByType:      make(map[string]decimal.Decimal),
			}
			byCourier[rec.CourierID] = report
			order = append(order, rec.CourierID)
		}

		km := 0.0
		if rec.RoundTripKm != nil {
			km = *rec.RoundTripKm
		}

		report.TotalDeliveries++
		report.TotalDeliveryFees = report.TotalDeliveryFees.Add(rec.DeliveryFee)
		report.TotalOrderValue = report.TotalOrderValue.Add(rec.OrderValue)
		report.TotalKm += km
		report.DeliveriesByType[rec.PaymentType]++
		report.ValuesByType[rec.PaymentType] = report.ValuesByType[rec.PaymentType].Add(rec.OrderValue)

		summary.TotalDeliveries++
		summary.TotalDeliveryFees = summary.TotalDeliveryFees.Add(rec.DeliveryFee)
		summary.TotalOrderValue = summary.TotalOrderValue.Add(rec.OrderValue)
		summary.TotalKm += km
	}

	reports := make([]DelivererReport, 0, len(order))
	for _, id := range order {
		reports = append(reports, *byCourier[id])
	}
	return summary, reports
}
