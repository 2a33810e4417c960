package paging

import (
	"net/url"
	"strconv"
)

// PagerLink is one rendered pager anchor.
type PagerLink struct {
	Label    string
	Href     string
	Current  bool
	Disabled bool // the current page or outside 1..total
}

// Pager is the render-ready form of Links.
type Pager struct {
	First  PagerLink
	Prev   PagerLink
	Next   PagerLink
	Last   PagerLink
	Window []PagerLink
}

// PageURL returns path with q and the page parameter set to page. q is not
// modified.
func PageURL(path string, q url.Values, page int) string {
	v := url.Values{}
	for k, vs := range q {
		v[k] = append([]string(nil), vs...)
	}
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}

// NewPager builds the pager for current out of total pages. Links pointing at
// the current page, or past either end, are disabled and carry "#".
func NewPager(path string, q url.Values, current, total, window int) Pager {
	if total < 1 {
		total = 1
	}
	link := func(label string, page int) PagerLink {
		l := PagerLink{Label: label, Href: "#"}
		if page == current || page < 1 || page > total {
			l.Disabled = true
			return l
		}
		l.Href = PageURL(path, q, page)
		return l
	}

	p := Pager{
		First: link("«", 1),
		Prev:  link("‹", current-1),
		Next:  link("›", current+1),
		Last:  link("»", total),
	}
	for _, w := range PageLinks(current, total, window).Window {
		pl := link(w.Label, w.Page)
		pl.Current = w.Page == current
		p.Window = append(p.Window, pl)
	}
	return p
}
