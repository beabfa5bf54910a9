package shift

import (
	"sort"

	"pizzeria-delivery/internal/models"
)

// CourierAll disables the courier filter.
const CourierAll = "all"

// Filter returns the subset of records whose CreatedAt falls inside w,
// optionally restricted to a single courier. The selection is stable:
// records keep the order they arrived in. Filtering an already-filtered
// slice with the same arguments returns the same slice content.
//
// An unknown courierID simply yields an empty result.
func Filter(records []models.Delivery, w Window, courierID string) []models.Delivery {
	out := make([]models.Delivery, 0, len(records))
	for _, rec := range records {
		if !w.Contains(rec.CreatedAt) {
			continue
		}
		if courierID != CourierAll && courierID != "" && rec.CourierID != courierID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SortNewestFirst orders records by descending CreatedAt, the display and
// report order. The sort is stable so same-instant records keep their
// relative order.
func SortNewestFirst(records []models.Delivery) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
