package mapping

import (
	"context"
	"errors"
	"fmt"
)

// ErrMockUnavailable simulates a provider outage.
var ErrMockUnavailable = errors.New("mapping: mock provider unavailable")

// MockProvider is a fixture-backed provider for tests and offline
// development. Distances are keyed "origin|destination" in km; the
// zero-value provider fails every lookup.
type MockProvider struct {
	Origin    string
	Distances map[string]float64
	Durations map[string]float64 // seconds, optional
	Fail      bool
}

func (m *MockProvider) lookup(origin, destination string) (matrixEntry, error) {
	if m.Fail {
		return matrixEntry{}, ErrMockUnavailable
	}
	key := origin + "|" + destination
	km, ok := m.Distances[key]
	if !ok {
		return matrixEntry{}, fmt.Errorf("mapping: no mock distance for %q", key)
	}
	return matrixEntry{meters: km * 1000, seconds: m.Durations[key]}, nil
}

func (m *MockProvider) Distance(ctx context.Context, destination string) (DistanceResult, error) {
	entry, err := m.lookup(normalize(m.Origin), normalize(destination))
	if err != nil {
		return DistanceResult{}, err
	}
	oneWay := roundKm(entry.meters)
	return DistanceResult{
		DistanceKm:   oneWay,
		RoundTripKm:  oneWay * 2,
		DurationText: formatDuration(entry.seconds),
	}, nil
}

func (m *MockProvider) OptimizeRoute(ctx context.Context, stops []string) (Route, error) {
	return optimizeRoute(ctx, normalize(m.Origin), stops, func(_ context.Context, origin string, destinations []string) (map[string]matrixEntry, error) {
		out := make(map[string]matrixEntry, len(destinations))
		for _, d := range destinations {
			entry, err := m.lookup(origin, d)
			if err != nil {
				return nil, err
			}
			out[d] = entry
		}
		return out, nil
	})
}
