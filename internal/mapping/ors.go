package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// coordinates in ORS order: [longitude, latitude].
type coordinates struct {
	Lon float64
	Lat float64
}

// ORSProvider implements DistanceProvider and RouteOptimizer against
// OpenRouteService. It geocodes addresses, fetches a one-origin distance
// matrix and derives round trips. The origin address and API key come
// from the injected Config. Safe for concurrent use; construct once per
// process.
type ORSProvider struct {
	session *http.Client
	cfg     Config
	baseURL string
	profile string
}

func NewORSProvider(cfg Config) (*ORSProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mapping: ORS api key is empty")
	}
	if cfg.OriginAddress == "" {
		return nil, errors.New("mapping: origin address is empty")
	}
	return &ORSProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		cfg:     cfg,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}, nil
}

// normalize collapses whitespace so equivalent address spellings compare equal.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// roundKm rounds to one decimal, matching the display precision used
// throughout the reports.
func roundKm(meters float64) float64 {
	return math.Round(meters/100) / 10
}

// Distance measures origin -> destination one way and doubles it for the
// round trip.
func (o *ORSProvider) Distance(ctx context.Context, destination string) (DistanceResult, error) {
	dest := normalize(destination)
	if dest == "" {
		return DistanceResult{}, errors.New("mapping: destination must be non-empty")
	}

	results, err := o.matrix(ctx, normalize(o.cfg.OriginAddress), []string{dest})
	if err != nil {
		return DistanceResult{}, fmt.Errorf("mapping: distance to %q: %w", dest, err)
	}

	result, ok := results[dest]
	if !ok {
		return DistanceResult{}, fmt.Errorf("mapping: no matrix result for %q", dest)
	}

	oneWay := roundKm(result.meters)
	return DistanceResult{
		DistanceKm:   oneWay,
		RoundTripKm:  oneWay * 2,
		DurationText: formatDuration(result.seconds),
	}, nil
}

// OptimizeRoute orders the stops greedily by nearest neighbor from the
// origin, using one matrix row per step. Ties break on the
// lexicographically smaller address so the result is deterministic.
func (o *ORSProvider) OptimizeRoute(ctx context.Context, stops []string) (Route, error) {
	return optimizeRoute(ctx, normalize(o.cfg.OriginAddress), stops, o.matrix)
}

type matrixEntry struct {
	meters  float64
	seconds float64
}

// matrixFunc fetches distances from one origin to many destinations.
// Split out so the optimizer is testable without HTTP.
type matrixFunc func(ctx context.Context, origin string, destinations []string) (map[string]matrixEntry, error)

// matrix geocodes all addresses and fetches a single origin->many row.
func (o *ORSProvider) matrix(ctx context.Context, origin string, destinations []string) (map[string]matrixEntry, error) {
	addresses := append([]string{origin}, destinations...)
	coords := make([]coordinates, 0, len(addresses))
	for _, addr := range addresses {
		c, err := o.geocode(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", addr, err)
		}
		coords = append(coords, c)
	}

	locations := make([][2]float64, len(coords))
	for i, c := range coords {
		locations[i] = [2]float64{c.Lon, c.Lat}
	}
	destIdx := make([]int, len(destinations))
	for i := range destinations {
		destIdx[i] = i + 1
	}

	payload := map[string]any{
		"locations":    locations,
		"sources":      []int{0},
		"destinations": destIdx,
		"metrics":      []string{"distance", "duration"},
		"units":        "m",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Distances [][]float64 `json:"distances"`
		Durations [][]float64 `json:"durations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}
	if len(parsed.Distances) == 0 || len(parsed.Distances[0]) != len(destinations) {
		return nil, errors.New("matrix response shape mismatch")
	}

	out := make(map[string]matrixEntry, len(destinations))
	for i, dest := range destinations {
		entry := matrixEntry{meters: parsed.Distances[0][i]}
		if len(parsed.Durations) > 0 && len(parsed.Durations[0]) == len(destinations) {
			entry.seconds = parsed.Durations[0][i]
		}
		out[dest] = entry
	}
	return out, nil
}

// geocode resolves an address to coordinates via ORS geocode search.
func (o *ORSProvider) geocode(ctx context.Context, address string) (coordinates, error) {
	endpoint := fmt.Sprintf("%s/geocode/search?api_key=%s&text=%s&size=1",
		o.baseURL, url.QueryEscape(o.cfg.APIKey), url.QueryEscape(address))

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return coordinates{}, err
	}
	defer resp.Body.Close()

	var parsed struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(parsed.Features) == 0 || len(parsed.Features[0].Geometry.Coordinates) < 2 {
		return coordinates{}, fmt.Errorf("address not found: %q", address)
	}

	c := parsed.Features[0].Geometry.Coordinates
	return coordinates{Lon: c[0], Lat: c[1]}, nil
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Hour {
		return fmt.Sprintf("%d min", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dmin", int(d.Hours()), int(d.Minutes())%60)
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (o *ORSProvider) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (o *ORSProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx)
// with exponential backoff, honoring context cancellation.
func (o *ORSProvider) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		} else {
			// Plain transport errors are worth one more shot.
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
