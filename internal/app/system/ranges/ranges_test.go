package ranges_test

import (
	"testing"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sofia = time.FixedZone("EET", 2*60*60)

func fixedCatalog(now time.Time) *ranges.Catalog {
	return ranges.NewCatalog(
		ranges.WithLocation(sofia),
		ranges.WithClock(func() time.Time { return now }),
	)
}

func TestResolve_NamedRelativeRanges(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, sofia)
	c := fixedCatalog(now)

	tests := []struct {
		key       string
		wantStart time.Time
	}{
		{ranges.Today, time.Date(2024, 3, 15, 0, 0, 0, 0, sofia)},
		{ranges.Last7Days, time.Date(2024, 3, 9, 0, 0, 0, 0, sofia)},
		{ranges.Last30Days, time.Date(2024, 2, 15, 0, 0, 0, 0, sofia)},
		{ranges.Last90Days, time.Date(2023, 12, 17, 0, 0, 0, 0, sofia)},
		{ranges.Last365Days, time.Date(2023, 3, 17, 0, 0, 0, 0, sofia)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			r, ok := c.Resolve(tt.key, "", "")
			require.True(t, ok)
			assert.Equal(t, tt.key, r.Key)
			assert.True(t, tt.wantStart.Equal(r.Start), "start = %s, want %s", r.Start, tt.wantStart)
			assert.True(t, r.End.IsZero(), "relative ranges must have an open end")
		})
	}
}

func TestResolve_Last7DaysStartsAtLocalMidnight(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 1, 0, sofia)
	r, ok := fixedCatalog(now).Resolve(ranges.Last7Days, "", "")
	require.True(t, ok)

	local := r.Start.In(sofia)
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, 0, local.Second())
	assert.Equal(t, 9, local.Day())
}

func TestResolve_AllTime(t *testing.T) {
	c := fixedCatalog(time.Date(2024, 3, 15, 12, 0, 0, 0, sofia))
	r, ok := c.Resolve(ranges.AllTime, "", "")
	require.True(t, ok)

	assert.True(t, r.IsAllTime())
	assert.True(t, r.Start.IsZero())
	assert.True(t, r.End.IsZero())

	now := c.Now()
	assert.True(t, r.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, r.Contains(now.Add(48*time.Hour), now), "all time matches future dates too")
}

func TestResolve_CustomRange(t *testing.T) {
	c := fixedCatalog(time.Date(2024, 3, 15, 12, 0, 0, 0, sofia))

	r, ok := c.Resolve("", "2024-01-01", "2024-01-31")
	require.True(t, ok)

	assert.Empty(t, r.Key)
	assert.Equal(t, "2024-01-01 - 2024-01-31", r.Label)
	assert.True(t, r.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, sofia)))
	assert.True(t, r.End.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, sofia)))
}

func TestResolve_CustomRangeRFC3339(t *testing.T) {
	c := fixedCatalog(time.Date(2024, 3, 15, 12, 0, 0, 0, sofia))

	r, ok := c.Resolve("", "2024-01-01T08:00:00Z", "2024-01-02T18:00:00Z")
	require.True(t, ok)
	assert.True(t, r.Start.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, r.End.Equal(time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)))
}

func TestResolve_UnknownKeyFallsBackToCustom(t *testing.T) {
	c := fixedCatalog(time.Date(2024, 3, 15, 12, 0, 0, 0, sofia))

	r, ok := c.Resolve("last_fortnight", "2024-02-01", "2024-02-14")
	require.True(t, ok)
	assert.Equal(t, "2024-02-01 - 2024-02-14", r.Label)
}

func TestResolve_NoFilter(t *testing.T) {
	c := fixedCatalog(time.Date(2024, 3, 15, 12, 0, 0, 0, sofia))

	tests := []struct {
		name          string
		key, from, to string
	}{
		{"nothing", "", "", ""},
		{"unknown key only", "yesterday", "", ""},
		{"missing to", "", "2024-01-01", ""},
		{"bad from", "", "not-a-date", "2024-01-31"},
		{"bad to", "", "2024-01-01", "2024-13-45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Resolve(tt.key, tt.from, tt.to)
			assert.False(t, ok)
		})
	}
}

func TestContains_InclusiveBounds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	r := ranges.Range{Start: start, End: end}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, r.Contains(start, now))
	assert.True(t, r.Contains(end, now))
	assert.False(t, r.Contains(start.Add(-time.Nanosecond), now))
	assert.False(t, r.Contains(end.Add(time.Nanosecond), now))
}

func TestContains_OpenEndUsesSuppliedNow(t *testing.T) {
	r := ranges.Range{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	d := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, r.Contains(d, d.Add(-time.Hour)), "date after now is out of range")
	assert.True(t, r.Contains(d, d), "now itself is inside")
	assert.True(t, r.Contains(d, d.Add(time.Hour)))
}

func TestResolve_ReevaluatedOnEveryCall(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, sofia)
	c := ranges.NewCatalog(
		ranges.WithLocation(sofia),
		ranges.WithClock(func() time.Time { return now }),
	)

	first, _ := c.Resolve(ranges.Today, "", "")
	now = now.Add(2 * time.Minute) // crosses midnight
	second, _ := c.Resolve(ranges.Today, "", "")

	assert.True(t, first.Start.Before(second.Start))
	assert.Equal(t, 16, second.Start.Day())
}

func TestOptionsAndKnown(t *testing.T) {
	c := ranges.NewCatalog()

	opts := c.Options()
	require.Len(t, opts, 6)
	assert.Equal(t, ranges.AllTime, opts[0].Key)
	assert.Equal(t, ranges.Last365Days, opts[len(opts)-1].Key)

	assert.True(t, c.Known(ranges.Last90Days))
	assert.False(t, c.Known(""))
	assert.False(t, c.Known("forever"))
}
