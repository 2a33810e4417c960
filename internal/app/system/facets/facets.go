// Package facets folds repair records into the per-user counters shown on
// the admin dashboard: how many repairs each user has and how much profit
// they brought in. The two facets are filtered by independent date ranges.
package facets

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Counts maps an owner username to a number of repairs.
type Counts map[string]int

// Profits maps an owner username to the summed profit of their repairs.
type Profits map[string]decimal.Decimal

// Facets is the result of one aggregation.
type Facets struct {
	Count  Counts
	Profit Profits
}

// New returns empty facets ready to accumulate into.
func New() Facets {
	return Facets{Count: Counts{}, Profit: Profits{}}
}

// Filter decides whether a repair date belongs to a facet.
type Filter func(date time.Time) bool

// Any matches every date.
func Any(time.Time) bool { return true }

// Within returns a filter for a resolved range evaluated against now. When
// ok is false the range did not resolve and every date matches.
func Within(r ranges.Range, ok bool, now time.Time) Filter {
	if !ok || r.IsAllTime() {
		return Any
	}
	return func(d time.Time) bool { return r.Contains(d, now) }
}

// Fold accumulates repairs into fresh facets. Traversal order does not
// affect the result.
func Fold(repairs []models.Repair, count, profit Filter) Facets {
	acc := New()
	for _, r := range repairs {
		acc = Step(acc, r, count, profit)
	}
	return acc
}

// Step adds a single repair to acc and returns it.
func Step(acc Facets, r models.Repair, count, profit Filter) Facets {
	user := r.Owner.Username
	if count(r.Date) {
		acc.Count[user]++
	}
	if profit(r.Date) {
		acc.Profit[user] = acc.Profit[user].Add(ParseProfit(r.Profit))
	}
	return acc
}

// Merge combines two partial results into new facets. Merge(a, b) equals
// Merge(b, a), so slices of repairs can be folded separately and joined.
func Merge(a, b Facets) Facets {
	out := New()
	for _, f := range []Facets{a, b} {
		for user, n := range f.Count {
			out.Count[user] += n
		}
		for user, p := range f.Profit {
			out.Profit[user] = out.Profit[user].Add(p)
		}
	}
	return out
}

// ParseProfit reads a stored profit value. Empty or malformed input is zero.
// Parsing is strict: a numeric prefix such as "100abc" is not read as 100.
func ParseProfit(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// TotalCount sums the count facet.
func (f Facets) TotalCount() int {
	n := 0
	for _, c := range f.Count {
		n += c
	}
	return n
}

// TotalProfit sums the profit facet.
func (f Facets) TotalProfit() decimal.Decimal {
	total := decimal.Zero
	for _, p := range f.Profit {
		total = total.Add(p)
	}
	return total
}

// Usernames returns every username present in either facet, sorted.
func (f Facets) Usernames() []string {
	seen := make(map[string]struct{}, len(f.Count)+len(f.Profit))
	for u := range f.Count {
		seen[u] = struct{}{}
	}
	for u := range f.Profit {
		seen[u] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Selection names the range for one facet: a catalog key, or custom bounds.
type Selection struct {
	Key  string
	From string
	To   string
}

// Aggregator resolves facet ranges through a catalog and folds repairs.
type Aggregator struct {
	Catalog *ranges.Catalog
}

// NewAggregator builds an Aggregator over catalog.
func NewAggregator(catalog *ranges.Catalog) *Aggregator {
	return &Aggregator{Catalog: catalog}
}

// Aggregate resolves both selections independently and folds repairs into
// count and profit facets. The clock is read once so both facets share the
// same notion of "now".
func (a *Aggregator) Aggregate(repairs []models.Repair, count, profit Selection) Facets {
	now := a.Catalog.Now()

	countRange, countOK := a.Catalog.Resolve(count.Key, count.From, count.To)
	profitRange, profitOK := a.Catalog.Resolve(profit.Key, profit.From, profit.To)

	return Fold(repairs,
		Within(countRange, countOK, now),
		Within(profitRange, profitOK, now),
	)
}
