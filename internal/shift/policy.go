// Package shift implements the operational-day rules used to bucket
// deliveries into reporting periods: resolving a calendar date to an
// absolute time window, classifying a timestamp back to its reporting
// date, filtering records into a window and folding them into per-courier
// and per-payment-type summaries.
//
// Everything in this package is pure: no clock reads, no I/O. Callers
// supply the reference date (or "now") explicitly so results are
// reproducible.
package shift

import "fmt"

// Policy selects how a reporting date maps to an absolute time window.
// The product history disagreed on this rule, so it stays an explicit,
// swappable parameter rather than a hard-coded behavior.
type Policy int

const (
	// PolicyCalendarDay buckets records by plain local calendar day.
	PolicyCalendarDay Policy = iota

	// PolicyCalendarDayGrace is the calendar day with a late-night grace
	// period: records created before the cutoff on the following morning
	// still belong to the previous reporting date.
	PolicyCalendarDayGrace

	// PolicyNightShift runs from the evening into the early hours of the
	// next day. This is the default.
	PolicyNightShift
)

// DefaultPolicy is applied when no policy is configured.
const DefaultPolicy = PolicyNightShift

// Shared clock constants. Every window boundary and every classification
// derives from the same grace cutoff.
const (
	graceCutoffHour   = 2
	graceCutoffMinute = 30
	nightStartHour    = 18
)

func (p Policy) String() string {
	switch p {
	case PolicyCalendarDay:
		return "calendar_day"
	case PolicyCalendarDayGrace:
		return "calendar_day_grace"
	case PolicyNightShift:
		return "night_shift"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "calendar_day":
		return PolicyCalendarDay, nil
	case "calendar_day_grace":
		return PolicyCalendarDayGrace, nil
	case "night_shift", "":
		return PolicyNightShift, nil
	}
	return DefaultPolicy, fmt.Errorf("unknown shift policy %q", s)
}
