package shift

import "pizzeria-delivery/internal/models"

// ClosingReport is the serializable closing document for one reporting
// date: the overall summary, the per-courier breakdown and the raw records
// that produced them. The JSON field names are the export contract; the
// CSV and receipt renderings in the reports module derive from the same
// structure.
type ClosingReport struct {
	Date              string             `json:"date"`
	CourierFilter     string             `json:"courierFilter"`
	Summary           Summary            `json:"summary"`
	PerCourierReports []DelivererReport  `json:"perCourierReports"`
	Records           []models.Delivery  `json:"records"`
}

// BuildClosingReport aggregates records into the export document.
// Records are expected newest-first (the repository's order); the
// per-courier card order follows from that.
func BuildClosingReport(date Date, courierID string, records []models.Delivery) ClosingReport {
	summary, reports := Aggregate(records)
	filter := courierID
	if filter == "" {
		filter = CourierAll
	}
	return ClosingReport{
		Date:              date.String(),
		CourierFilter:     filter,
		Summary:           summary,
		PerCourierReports: reports,
		Records:           records,
	}
}
