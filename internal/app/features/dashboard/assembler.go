// internal/app/features/dashboard/assembler.go
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// UserSource lists every registered user, administrators included.
type UserSource interface {
	AllUsers(ctx context.Context) ([]models.User, error)
}

// RepairSource lists every repair in the system.
type RepairSource interface {
	AllRepairs(ctx context.Context) ([]models.Repair, error)
}

// Request is the dashboard state carried in the page URL.
type Request struct {
	Page   int
	Count  facets.Selection // userRepairs
	Profit facets.Selection // userProfit
}

// Bar is one column of the repair-count chart.
type Bar struct {
	Username string
	Count    int
	Percent  int // of the tallest bar, 0..100
}

// Slice is one wedge of the profit chart.
type Slice struct {
	Username string
	Profit   decimal.Decimal
	Share    decimal.Decimal // percent of total profit, two places
}

// Payload is everything the dashboard renders for one request.
type Payload struct {
	Users      paging.Page[models.User]
	TotalUsers int
	Facets     facets.Facets
	Bars       []Bar
	Slices     []Slice

	// Echoed request state.
	Page   int
	Count  facets.Selection
	Profit facets.Selection

	Folded int // repairs considered after dropping admin-owned ones
}

// Assembler fetches users and repairs and turns them into a Payload.
type Assembler struct {
	Users      UserSource
	Repairs    RepairSource
	Aggregator *facets.Aggregator
	PageSize   int
}

// NewAssembler builds an Assembler. A non-positive pageSize falls back to
// paging.UsersPerPage.
func NewAssembler(users UserSource, repairs RepairSource, agg *facets.Aggregator, pageSize int) *Assembler {
	if pageSize <= 0 {
		pageSize = paging.UsersPerPage
	}
	return &Assembler{Users: users, Repairs: repairs, Aggregator: agg, PageSize: pageSize}
}

// Assemble runs both fetches concurrently and builds the payload once both
// have succeeded. Either failure aborts the other and no payload is returned.
func (a *Assembler) Assemble(ctx context.Context, req Request) (Payload, error) {
	var (
		users   []models.User
		repairs []models.Repair
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := a.Users.AllUsers(gctx)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		users = u
		return nil
	})
	g.Go(func() error {
		r, err := a.Repairs.AllRepairs(gctx)
		if err != nil {
			return fmt.Errorf("fetch repairs: %w", err)
		}
		repairs = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return Payload{}, err
	}

	kept := withoutAdminRepairs(users, repairs)
	f := a.Aggregator.Aggregate(kept, req.Count, req.Profit)
	page := paging.Paginate(users, req.Page, a.PageSize)

	return Payload{
		Users:      page,
		TotalUsers: page.Total,
		Facets:     f,
		Bars:       bars(f),
		Slices:     slices(f),
		Page:       req.Page,
		Count:      req.Count,
		Profit:     req.Profit,
		Folded:     len(kept),
	}, nil
}

func withoutAdminRepairs(users []models.User, repairs []models.Repair) []models.Repair {
	admins := make(map[primitive.ObjectID]struct{})
	for _, u := range users {
		if u.IsAdmin() {
			admins[u.ID] = struct{}{}
		}
	}
	if len(admins) == 0 {
		return repairs
	}
	out := make([]models.Repair, 0, len(repairs))
	for _, r := range repairs {
		if _, ok := admins[r.Owner.ID]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func bars(f facets.Facets) []Bar {
	names := make([]string, 0, len(f.Count))
	max := 0
	for u, n := range f.Count {
		names = append(names, u)
		if n > max {
			max = n
		}
	}
	sort.Strings(names)

	out := make([]Bar, 0, len(names))
	for _, u := range names {
		b := Bar{Username: u, Count: f.Count[u]}
		if max > 0 {
			b.Percent = b.Count * 100 / max
		}
		out = append(out, b)
	}
	return out
}

var hundred = decimal.NewFromInt(100)

func slices(f facets.Facets) []Slice {
	names := make([]string, 0, len(f.Profit))
	for u := range f.Profit {
		names = append(names, u)
	}
	sort.Strings(names)

	total := f.TotalProfit()
	out := make([]Slice, 0, len(names))
	for _, u := range names {
		s := Slice{Username: u, Profit: f.Profit[u], Share: decimal.Zero}
		if !total.IsZero() {
			s.Share = s.Profit.Mul(hundred).Div(total).Round(2)
		}
		out = append(out, s)
	}
	return out
}
