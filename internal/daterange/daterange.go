// Package daterange models the calendar-date window a dashboard load covers.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire format of a calendar date.
const Layout = "2006-01-02"

// ErrEndBeforeStart is returned when a range ends before it starts.
var ErrEndBeforeStart = errors.New("end date is before start date")

// Range is an inclusive pair of calendar dates. Start and End are held at
// midnight in the range's location; no time of day is significant.
type Range struct {
	Start time.Time
	End   time.Time
}

// New returns the range covering the calendar days of start and end.
func New(start, end time.Time) Range {
	return Range{Start: midnight(start), End: midnight(end)}
}

// Parse reads a YYYY-MM-DD pair in the local time zone.
func Parse(start, end string) (Range, error) {
	return ParseIn(start, end, time.Local)
}

// ParseIn reads a YYYY-MM-DD pair in loc.
func ParseIn(start, end string, loc *time.Location) (Range, error) {
	s, err := time.ParseInLocation(Layout, start, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	e, err := time.ParseInLocation(Layout, end, loc)
	if err != nil {
		return Range{}, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("%s..%s: %w", start, end, ErrEndBeforeStart)
	}
	return Range{Start: s, End: e}, nil
}

// StartString returns the start date as YYYY-MM-DD.
func (r Range) StartString() string { return r.Start.Format(Layout) }

// EndString returns the end date as YYYY-MM-DD.
func (r Range) EndString() string { return r.End.Format(Layout) }

// Key identifies the range for caching, e.g. "2025-01-01|2025-01-14".
func (r Range) Key() string { return r.StartString() + "|" + r.EndString() }

func (r Range) String() string { return r.StartString() + " – " + r.EndString() }

// Equal reports whether both ranges cover the same calendar days.
func (r Range) Equal(o Range) bool { return r.Key() == o.Key() }

// Days returns the number of calendar days in the range.
func (r Range) Days() int { return daysBetween(r.Start, r.End) + 1 }

// Contains reports whether t falls inside the range. Both boundary days
// are included; the end date counts up to its last millisecond.
func (r Range) Contains(t time.Time) bool {
	end := r.End.AddDate(0, 0, 1).Add(-time.Millisecond)
	return !t.Before(r.Start) && !t.After(end)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
