// internal/app/features/dashboard/present.go
package dashboard

import (
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/navigation"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type rangeChoice struct {
	Key      string
	Label    string
	Selected bool
}

type hiddenField struct {
	Name  string
	Value string
}

type rangeSelect struct {
	Type    string // ParamCount or ParamProfit
	Title   string
	Current string
	Custom  bool
	From    string
	To      string
	Choices []rangeChoice
	Hidden  []hiddenField // the other facet's state, carried through the form
}

type userRow struct {
	Username  string
	BrowseURL string
	Joined    string
}

type barRow struct {
	Username string
	Count    int
	Percent  int
}

type sliceRow struct {
	Username string
	Money    string
	Share    string
}

type adminData struct {
	viewdata.BaseVM

	CountRange  rangeSelect
	ProfitRange rangeSelect

	Users      []userRow
	TotalUsers int
	Pager      paging.Pager

	Bars         []barRow
	Slices       []sliceRow
	TotalRepairs int
	TotalProfit  string

	ExportURL string
	TabID     string
}

// htmlPresenter renders a dashboard run as an HTML response. A superseded
// htmx run writes nothing until Done, which then answers 204 with
// HX-Reswap: none so htmx leaves the newer content in place.
type htmlPresenter struct {
	h     *Handler
	w     http.ResponseWriter
	r     *http.Request
	tab   string
	wrote bool
}

func (p *htmlPresenter) Present(pl Payload) {
	p.wrote = true
	data := p.h.viewModel(p.r, pl)
	data.TabID = p.tab
	if isHTMX(p.r) && p.r.Header.Get("HX-Target") == "dashboard" {
		templates.RenderSnippet(p.w, "admin_dashboard_content", data)
		return
	}
	templates.Render(p.w, p.r, "admin_dashboard", data)
}

func (p *htmlPresenter) Fail(message string) {
	p.wrote = true
	uierrors.HTMXError(p.w, p.r, http.StatusInternalServerError, message, func() {
		uierrors.RenderServerError(p.w, p.r, message, "/admin")
	})
}

func (p *htmlPresenter) Done() {
	if p.wrote {
		return
	}
	if !isHTMX(p.r) {
		// A plain navigation has nothing on screen to keep; load it again.
		http.Redirect(p.w, p.r, p.r.URL.RequestURI(), http.StatusSeeOther)
		return
	}
	p.w.Header().Set("HX-Reswap", "none")
	p.w.WriteHeader(http.StatusNoContent)
}

// bounds lists sel's values in boundSuffixes order.
func bounds(sel facets.Selection) []string {
	return []string{sel.Key, sel.From, sel.To}
}

func stateQuery(req Request) url.Values {
	q := url.Values{}
	for name, sel := range map[string]facets.Selection{ParamCount: req.Count, ParamProfit: req.Profit} {
		for i, v := range bounds(sel) {
			if v != "" {
				q.Set(name+boundSuffixes[i], v)
			}
		}
	}
	return q
}

func (h *Handler) viewModel(r *http.Request, pl Payload) adminData {
	loc := viewdata.Locale()
	req := Request{Page: pl.Page, Count: pl.Count, Profit: pl.Profit}
	state := stateQuery(req)

	data := adminData{
		BaseVM:      viewdata.NewBaseVM(r, "Admin dashboard", "/admin"),
		CountRange:  h.rangeSelect(ParamCount, "Repairs", pl.Count, pl.Profit, ParamProfit),
		ProfitRange: h.rangeSelect(ParamProfit, "Profit", pl.Profit, pl.Count, ParamCount),
		TotalUsers:  pl.TotalUsers,
		Pager:       paging.NewPager("/admin", state, pl.Page, pl.Users.TotalPages(), h.pageLinks),

		TotalRepairs: pl.Facets.TotalCount(),
		TotalProfit:  loc.Money(pl.Facets.TotalProfit()),
		ExportURL:    "/admin/export.xlsx",
	}
	if len(state) > 0 {
		data.ExportURL += "?" + state.Encode()
	}

	for _, u := range pl.Users.Items {
		data.Users = append(data.Users, userRow{
			Username:  u.Username,
			BrowseURL: navigation.UserPath(navigation.BrowsePrefix(u.ID), "/cars"),
			Joined:    loc.Day(u.CreatedAt),
		})
	}
	for _, b := range pl.Bars {
		data.Bars = append(data.Bars, barRow{Username: b.Username, Count: b.Count, Percent: b.Percent})
	}
	for _, s := range pl.Slices {
		data.Slices = append(data.Slices, sliceRow{
			Username: s.Username,
			Money:    loc.Money(s.Profit),
			Share:    s.Share.StringFixed(2) + "%",
		})
	}
	return data
}

func (h *Handler) rangeSelect(typ, title string, sel, other facets.Selection, otherName string) rangeSelect {
	loc := viewdata.Locale()
	rs := rangeSelect{
		Type:    typ,
		Title:   title,
		Current: h.rangeLabel(sel),
	}

	rg, ok := h.Catalog.Resolve(sel.Key, sel.From, sel.To)
	selected := ranges.AllTime
	switch {
	case ok && rg.Key != "":
		selected = rg.Key
	case ok:
		selected = ""
		rs.Custom = true
		rs.From, rs.To = sel.From, sel.To
	}

	for _, o := range h.Catalog.Options() {
		rs.Choices = append(rs.Choices, rangeChoice{
			Key:      o.Key,
			Label:    loc.RangeLabel(o.Key, o.Label),
			Selected: o.Key == selected,
		})
	}

	for i, v := range bounds(other) {
		if v != "" {
			rs.Hidden = append(rs.Hidden, hiddenField{Name: otherName + boundSuffixes[i], Value: v})
		}
	}
	return rs
}
