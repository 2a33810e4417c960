// Package ranges resolves the date windows offered on the admin dashboard.
//
// A Range is always built at the moment it is resolved. Relative windows
// such as "last 7 days" start at midnight of the earliest day in the
// catalog's location and have no fixed end: the end is whatever "now" the
// caller passes to Contains. Ranges are therefore never cached across
// requests.
package ranges

import (
	"strings"
	"time"
)

// Named range keys accepted in dashboard query strings.
const (
	AllTime     = "all_time"
	Today       = "today"
	Last7Days   = "last_7_days"
	Last30Days  = "last_30_days"
	Last90Days  = "last_90_days"
	Last365Days = "last_365_days"
)

// DayLayout is the calendar-day format used for custom bounds and labels.
const DayLayout = "2006-01-02"

// Range is a resolved date window.
type Range struct {
	Key   string    // catalog key; empty for a custom from/to range
	Label string    // English label, translated by the view layer
	Start time.Time // zero means unbounded past
	End   time.Time // zero means "now" at evaluation time
}

// IsAllTime reports whether the range places no constraint on dates.
func (r Range) IsAllTime() bool {
	return r.Start.IsZero()
}

// Contains reports whether t falls inside the range. Both bounds are
// inclusive. An open end is compared against now.
func (r Range) Contains(t, now time.Time) bool {
	if r.Start.IsZero() {
		return true
	}
	if t.Before(r.Start) {
		return false
	}
	end := r.End
	if end.IsZero() {
		end = now
	}
	return !t.After(end)
}

// entry is one named window. days is the number of calendar days covered,
// counting today; zero means all time.
type entry struct {
	key   string
	label string
	days  int
}

var named = []entry{
	{key: AllTime, label: "All time"},
	{key: Today, label: "Today", days: 1},
	{key: Last7Days, label: "Last 7 days", days: 7},
	{key: Last30Days, label: "Last 30 days", days: 30},
	{key: Last90Days, label: "Last 90 days", days: 90},
	{key: Last365Days, label: "Last 365 days", days: 365},
}

// Option is a selectable catalog entry for dropdowns.
type Option struct {
	Key   string
	Label string
}

// Catalog resolves range keys and custom bounds.
type Catalog struct {
	now func() time.Time
	loc *time.Location
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithClock overrides the clock used to anchor relative ranges.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the location whose midnight starts relative ranges and
// in which date-only custom bounds are parsed.
func WithLocation(loc *time.Location) CatalogOption {
	return func(c *Catalog) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewCatalog builds a catalog using the wall clock and time.Local unless
// overridden.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the catalog clock's current instant.
func (c *Catalog) Now() time.Time {
	return c.now()
}

// Location returns the catalog's location.
func (c *Catalog) Location() *time.Location {
	return c.loc
}

// Options lists the named ranges in display order.
func (c *Catalog) Options() []Option {
	out := make([]Option, 0, len(named))
	for _, e := range named {
		out = append(out, Option{Key: e.key, Label: e.label})
	}
	return out
}

// Known reports whether key names a catalog entry.
func (c *Catalog) Known(key string) bool {
	_, ok := lookup(key)
	return ok
}

// Resolve turns a key, or failing that a from/to pair, into a Range.
//
// A known key wins. Otherwise from and to must both parse (as a calendar day
// or RFC 3339 instant) to produce a custom range. When neither applies the
// second result is false and the caller must apply no date filter.
func (c *Catalog) Resolve(key, from, to string) (Range, bool) {
	if e, ok := lookup(key); ok {
		return c.build(e, c.now()), true
	}

	start, okStart := c.parse(from)
	end, okEnd := c.parse(to)
	if !okStart || !okEnd {
		return Range{}, false
	}

	return Range{
		Label: start.Format(DayLayout) + " - " + end.Format(DayLayout),
		Start: start,
		End:   end,
	}, true
}

func (c *Catalog) build(e entry, now time.Time) Range {
	r := Range{Key: e.key, Label: e.label}
	if e.days == 0 {
		return r
	}
	local := now.In(c.loc)
	r.Start = time.Date(local.Year(), local.Month(), local.Day()-(e.days-1), 0, 0, 0, 0, c.loc)
	return r
}

func (c *Catalog) parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DayLayout, s, c.loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func lookup(key string) (entry, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return entry{}, false
	}
	for _, e := range named {
		if e.key == key {
			return e, true
		}
	}
	return entry{}, false
}
