// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/metrics"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Query parameters that carry the dashboard state.
const (
	ParamCount  = "userRepairs"
	ParamProfit = "userProfit"
)

// TabHeader carries the browser tab a dashboard request comes from. The page
// sets it on its htmx requests so tabs do not supersede each other.
const TabHeader = "X-Dashboard-Tab"

var boundSuffixes = []string{"", "From", "To"}

// Options tunes the dashboard. Zero values fall back to the paging defaults.
type Options struct {
	PageSize  int
	PageLinks int
	Metrics   *metrics.Metrics
}

type Handler struct {
	Runner  *Runner
	Catalog *ranges.Catalog
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	pageLinks int
}

func NewHandler(users UserSource, repairs RepairSource, catalog *ranges.Catalog, opts Options, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if opts.PageLinks <= 0 {
		opts.PageLinks = paging.RelativePageLinks
	}
	asm := NewAssembler(users, repairs, facets.NewAggregator(catalog), opts.PageSize)
	return &Handler{
		Runner:    NewRunner(asm, viewdata.Locale(), opts.Metrics, logger),
		Catalog:   catalog,
		ErrLog:    errLog,
		Log:       logger,
		pageLinks: opts.PageLinks,
	}
}

func selection(r *http.Request, name string) facets.Selection {
	return facets.Selection{
		Key:  query.Get(r, name),
		From: query.Get(r, name+"From"),
		To:   query.Get(r, name+"To"),
	}
}

// ParseRequest reads the dashboard state from the query string.
func ParseRequest(r *http.Request) Request {
	return Request{
		Page:   paging.ParsePage(r),
		Count:  selection(r, ParamCount),
		Profit: selection(r, ParamProfit),
	}
}

// ServeAdmin renders the dashboard.
// GET /admin
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	viewer := ""
	if u, ok := auth.CurrentUser(r); ok {
		viewer = u.ID
	}
	key, tab := sequenceKey(r, viewer)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin dashboard")
	defer cancel()

	h.Runner.Run(ctx, key, ParseRequest(r), &htmlPresenter{h: h, w: w, r: r, tab: tab})
}

// sequenceKey picks the key a dashboard request is sequenced under and the
// tab ID the rendered page carries. htmx requests from a dashboard page reuse
// its tab; anything else starts a new tab, so a full page load is never
// superseded.
func sequenceKey(r *http.Request, viewer string) (key, tab string) {
	if isHTMX(r) {
		if id, err := uuid.Parse(strings.TrimSpace(r.Header.Get(TabHeader))); err == nil {
			tab = id.String()
		}
	}
	if tab == "" {
		tab = uuid.NewString()
	}
	return viewer + "/" + tab, tab
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// ServeRange applies a range selection and redirects back to the dashboard.
// The other facet's range is kept and the page resets to the first.
// GET /admin/range?type=userRepairs|userProfit&value=<key>
func (h *Handler) ServeRange(w http.ResponseWriter, r *http.Request) {
	typ := query.Get(r, "type")
	if typ != ParamCount && typ != ParamProfit {
		uierrors.RenderBadRequest(w, r, "Unknown range type.", "/admin")
		return
	}

	q := url.Values{}
	for _, p := range []string{ParamCount, ParamProfit} {
		for _, s := range boundSuffixes {
			if v := query.Get(r, p+s); v != "" {
				q.Set(p+s, v)
			}
		}
	}
	for _, s := range boundSuffixes {
		q.Del(typ + s)
	}

	value := query.Get(r, "value")
	from, to := query.Get(r, "from"), query.Get(r, "to")
	switch {
	case value != ranges.AllTime && h.Catalog.Known(value):
		q.Set(typ, value)
	case value == "" && from != "" && to != "":
		if _, ok := h.Catalog.Resolve("", from, to); ok {
			q.Set(typ+"From", from)
			q.Set(typ+"To", to)
		}
	}

	target := "/admin"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// rangeLabel is the localized name of the range sel resolves to.
func (h *Handler) rangeLabel(sel facets.Selection) string {
	loc := viewdata.Locale()
	rg, ok := h.Catalog.Resolve(sel.Key, sel.From, sel.To)
	switch {
	case !ok || rg.IsAllTime():
		return loc.RangeLabel(ranges.AllTime, "All time")
	case rg.Key == "":
		return rg.Label
	default:
		return loc.RangeLabel(rg.Key, rg.Label)
	}
}
