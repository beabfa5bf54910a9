package shift

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria-delivery/internal/models"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func km(v float64) *float64 { return &v }

func rec(courierID, courierName, paymentType, fee, value string, roundTrip *float64, at time.Time) models.Delivery {
	return models.Delivery{
		ID:          courierID + "-" + at.Format("150405"),
		CourierID:   courierID,
		CourierName: courierName,
		PaymentType: paymentType,
		DeliveryFee: money(fee),
		OrderValue:  money(value),
		RoundTripKm: roundTrip,
		CreatedAt:   at,
	}
}

// Daily closing scenario: two couriers, three deliveries.
func TestAggregateDailyClosing(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("ana", "Ana", models.PaymentPix, "5.00", "40.00", nil, base.Add(2*time.Hour)),
		rec("ana", "Ana", models.PaymentCash, "5.00", "20.00", nil, base.Add(time.Hour)),
		rec("bruno", "Bruno", models.PaymentCard, "6.00", "55.00", nil, base),
	}

	summary, reports := Aggregate(records)

	assert.Equal(t, 3, summary.TotalDeliveries)
	assert.True(t, summary.TotalDeliveryFees.Equal(money("16.00")))
	assert.True(t, summary.TotalOrderValue.Equal(money("115.00")))

	require.Len(t, reports, 2)

	ana := reports[0]
	assert.Equal(t, "Ana", ana.CourierName)
	assert.Equal(t, 2, ana.TotalDeliveries)
	assert.True(t, ana.TotalDeliveryFees.Equal(money("10.00")))
	assert.True(t, ana.TotalOrderValue.Equal(money("60.00")))
	assert.Equal(t, map[string]int{"pix": 1, "cash": 1}, ana.DeliveriesByType)
	assert.True(t, ana.ValuesByType["pix"].Equal(money("40.00")))
	assert.True(t, ana.ValuesByType["cash"].Equal(money("20.00")))

	bruno := reports[1]
	assert.Equal(t, 1, bruno.TotalDeliveries)
	assert.True(t, bruno.TotalDeliveryFees.Equal(money("6.00")))
	assert.True(t, bruno.TotalOrderValue.Equal(money("55.00")))
	assert.Equal(t, map[string]int{"card": 1}, bruno.DeliveriesByType)
}

// Per-courier reports come out in first-seen order over the input.
func TestAggregateFirstSeenOrder(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("bruno", "Bruno", models.PaymentCard, "6.00", "55.00", nil, base.Add(3*time.Hour)),
		rec("ana", "Ana", models.PaymentPix, "5.00", "40.00", nil, base.Add(2*time.Hour)),
		rec("bruno", "Bruno", models.PaymentCash, "6.00", "30.00", nil, base),
	}

	_, reports := Aggregate(records)
	require.Len(t, reports, 2)
	assert.Equal(t, "bruno", reports[0].CourierID)
	assert.Equal(t, "ana", reports[1].CourierID)
}

// Summing two disjoint subsets field-by-field must equal the aggregate of
// the whole set.
func TestAggregateAdditivity(t *testing.T) {
	base := time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC)
	all := []models.Delivery{
		rec("ana", "Ana", models.PaymentPix, "5.00", "40.00", km(4.2), base),
		rec("ana", "Ana", models.PaymentCash, "5.50", "20.00", nil, base.Add(time.Hour)),
		rec("bruno", "Bruno", models.PaymentCard, "6.00", "55.00", km(7.8), base.Add(2*time.Hour)),
		rec("carla", "Carla", models.PaymentIfood, "4.00", "33.10", km(3.0), base.Add(3*time.Hour)),
		rec("bruno", "Bruno", models.PaymentPix, "6.00", "12.90", nil, base.Add(4*time.Hour)),
	}

	whole, _ := Aggregate(all)
	left, _ := Aggregate(all[:2])
	right, _ := Aggregate(all[2:])

	assert.Equal(t, whole.TotalDeliveries, left.TotalDeliveries+right.TotalDeliveries)
	assert.True(t, whole.TotalDeliveryFees.Equal(left.TotalDeliveryFees.Add(right.TotalDeliveryFees)))
	assert.True(t, whole.TotalOrderValue.Equal(left.TotalOrderValue.Add(right.TotalOrderValue)))
	assert.InDelta(t, whole.TotalKm, left.TotalKm+right.TotalKm, 1e-9)

	// Per-type maps merge by key.
	_, wholeReports := Aggregate(all)
	counts := map[string]int{}
	for _, r := range wholeReports {
		for k, v := range r.DeliveriesByType {
			counts[k] += v
		}
	}
	assert.Equal(t, map[string]int{"pix": 2, "cash": 1, "card": 1, "ifood": 1}, counts)
}

// Decimal accumulation keeps exact cents: 10.00 + 0.10 + 0.05 renders as
// "10.15", never a float artifact.
func TestAggregateMonetaryRounding(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("ana", "Ana", models.PaymentPix, "10.00", "1.00", nil, base),
		rec("ana", "Ana", models.PaymentPix, "0.10", "1.00", nil, base.Add(time.Minute)),
		rec("ana", "Ana", models.PaymentPix, "0.05", "1.00", nil, base.Add(2*time.Minute)),
	}

	summary, _ := Aggregate(records)
	assert.Equal(t, "10.15", summary.TotalDeliveryFees.StringFixed(2))
}

// Records without a resolved distance still count as deliveries but add
// nothing to km totals.
func TestAggregateUnresolvedDistance(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("ana", "Ana", models.PaymentPix, "5.00", "40.00", km(6.4), base),
		rec("ana", "Ana", models.PaymentCash, "5.00", "20.00", nil, base.Add(time.Hour)),
	}

	summary, reports := Aggregate(records)
	assert.Equal(t, 2, summary.TotalDeliveries)
	assert.InDelta(t, 6.4, summary.TotalKm, 1e-9)
	require.Len(t, reports, 1)
	assert.InDelta(t, 6.4, reports[0].TotalKm, 1e-9)
}

func TestAggregateEmptyInput(t *testing.T) {
	summary, reports := Aggregate(nil)
	assert.Zero(t, summary.TotalDeliveries)
	assert.True(t, summary.TotalDeliveryFees.IsZero())
	assert.True(t, summary.TotalOrderValue.IsZero())
	assert.Empty(t, reports)
}

// Unrecognized payment codes are preserved as-is in the breakdown maps.
func TestAggregateUnknownPaymentType(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("ana", "Ana", "voucher", "5.00", "40.00", nil, base),
	}
	_, reports := Aggregate(records)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].DeliveriesByType["voucher"])
	assert.Equal(t, "voucher", models.PaymentTypeLabel("voucher"))
	assert.Equal(t, "PIX", models.PaymentTypeLabel(models.PaymentPix))
}

func TestBuildClosingReport(t *testing.T) {
	base := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)
	records := []models.Delivery{
		rec("ana", "Ana", models.PaymentPix, "5.00", "40.00", nil, base),
	}

	report := BuildClosingReport(Date{2024, time.January, 10}, "", records)
	assert.Equal(t, "2024-01-10", report.Date)
	assert.Equal(t, CourierAll, report.CourierFilter)
	assert.Equal(t, 1, report.Summary.TotalDeliveries)
	require.Len(t, report.PerCourierReports, 1)
	assert.Len(t, report.Records, 1)
}
