package mapping

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// optimizeRoute visits stops greedily by nearest neighbor, one matrix row
// per hop. It returns the visiting order as indexes into the caller's
// slice together with the measured legs. Duplicate and blank stops are
// collapsed before planning; each surviving address appears once in the
// order. Equal durations tie-break on the smaller address string so the
// result is deterministic.
func optimizeRoute(ctx context.Context, origin string, stops []string, fetch matrixFunc) (Route, error) {
	if origin == "" {
		return Route{}, errors.New("mapping: origin must be non-empty")
	}

	// Index stops by normalized address, first occurrence wins.
	index := make(map[string]int, len(stops))
	remaining := make(map[string]struct{}, len(stops))
	for i, s := range stops {
		ns := normalize(s)
		if ns == "" {
			continue
		}
		if _, ok := index[ns]; !ok {
			index[ns] = i
			remaining[ns] = struct{}{}
		}
	}
	if len(remaining) == 0 {
		return Route{Order: []int{}, Legs: []Leg{}}, nil
	}

	route := Route{
		Order: make([]int, 0, len(remaining)),
		Legs:  make([]Leg, 0, len(remaining)),
	}
	current := origin

	for len(remaining) > 0 {
		destinations := make([]string, 0, len(remaining))
		for d := range remaining {
			destinations = append(destinations, d)
		}

		results, err := fetch(ctx, current, destinations)
		if err != nil {
			return Route{}, fmt.Errorf("mapping: matrix from %q: %w", current, err)
		}

		best := ""
		bestSeconds := math.MaxFloat64
		for _, d := range destinations {
			entry, ok := results[d]
			if !ok {
				return Route{}, fmt.Errorf("mapping: missing matrix result from %q to %q", current, d)
			}
			if entry.seconds < bestSeconds || (entry.seconds == bestSeconds && (best == "" || d < best)) {
				bestSeconds = entry.seconds
				best = d
			}
		}

		entry := results[best]
		legKm := roundKm(entry.meters)
		route.Order = append(route.Order, index[best])
		route.Legs = append(route.Legs, Leg{
			StartAddress: current,
			EndAddress:   best,
			DistanceKm:   legKm,
			DurationText: formatDuration(entry.seconds),
		})
		route.TotalDistanceKm += legKm

		delete(remaining, best)
		current = best
	}

	return route, nil
}
