package shift

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time component. Reporting periods are
// keyed by Date; the active Policy decides which instants belong to it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in ISO "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// midnight returns 00:00:00 of d in loc.
func (d Date) midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d. Normalization is delegated to
// time.Date, so month and year boundaries are handled.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Window is the resolved absolute interval for one reporting date. The
// interval is half-open: Start is included, End is not.
type Window struct {
	Start         time.Time
	End           time.Time
	ReferenceDate Date
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Resolve maps a reporting date to its absolute [Start, End) interval in
// loc under the given policy.
//
//	calendar_day        [d 00:00, d+1 00:00)
//	calendar_day_grace  [d 02:30, d+1 02:30)
//	night_shift         [d 18:00, d+1 02:30)
//
// Resolve is a pure function: same inputs, same window.
func Resolve(d Date, p Policy, loc *time.Location) Window {
	next := d.AddDays(1)
	w := Window{ReferenceDate: d}

	switch p {
	case PolicyCalendarDay:
		w.Start = d.midnight(loc)
		w.End = next.midnight(loc)
	case PolicyCalendarDayGrace:
		w.Start = time.Date(d.Year, d.Month, d.Day, graceCutoffHour, graceCutoffMinute, 0, 0, loc)
		w.End = time.Date(next.Year, next.Month, next.Day, graceCutoffHour, graceCutoffMinute, 0, 0, loc)
	case PolicyNightShift:
		w.Start = time.Date(d.Year, d.Month, d.Day, nightStartHour, 0, 0, 0, loc)
		w.End = time.Date(next.Year, next.Month, next.Day, graceCutoffHour, graceCutoffMinute, 0, 0, loc)
	}
	return w
}

// Classify maps a timestamp back to the reporting date it belongs to,
// evaluated in t's own location. It is the exact inverse of Resolve: for
// any t inside Resolve(d, p, loc), Classify(t, p) == d.
//
// Under the grace policies a timestamp before the early-morning cutoff is
// attributed to the previous reporting date.
func Classify(t time.Time, p Policy) Date {
	if p == PolicyCalendarDay {
		return DateOf(t)
	}
	h, m, _ := t.Clock()
	if h < graceCutoffHour || (h == graceCutoffHour && m < graceCutoffMinute) {
		return DateOf(t).AddDays(-1)
	}
	return DateOf(t)
}
