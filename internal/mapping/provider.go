// Package mapping talks to the external route/geocoding provider. The
// lookup is strictly best-effort: a failed call must never block the
// persistence of a delivery record.
package mapping

import "context"

// Config carries everything the provider needs. It is injected at
// construction time; nothing in this package reads ambient state per call.
type Config struct {
	APIKey        string
	OriginAddress string
}

// DistanceResult is a one-way measurement from the restaurant's origin
// plus the derived round trip. On the simple path RoundTripKm is exactly
// twice DistanceKm; route-optimized legs set it independently.
type DistanceResult struct {
	DistanceKm   float64
	RoundTripKm  float64
	DurationText string
}

// DistanceProvider resolves a destination address to distance and
// duration from the configured origin.
type DistanceProvider interface {
	Distance(ctx context.Context, destination string) (DistanceResult, error)
}

// Leg is one segment of an optimized multi-stop route.
type Leg struct {
	StartAddress string
	EndAddress   string
	DistanceKm   float64
	DurationText string
}

// Route is the provider-advised visiting order for a set of stops plus
// the per-leg measurements. Order holds indexes into the caller's stop
// slice.
type Route struct {
	Order           []int
	Legs            []Leg
	TotalDistanceKm float64
}

// RouteOptimizer produces a visiting order for an unordered list of
// stops, starting from the configured origin.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, stops []string) (Route, error)
}
