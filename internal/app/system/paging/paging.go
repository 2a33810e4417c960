// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// UsersPerPage is the number of users shown per dashboard page.
const UsersPerPage = 5

// ItemsPerPage is the number of repairs shown per catalog page.
const ItemsPerPage = 10

// RelativePageLinks is how many numbered links the pager shows around the
// current page.
const RelativePageLinks = 3

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or not a number. Values below 1 are kept so the
// caller sees an empty page rather than a silently different one.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

// Page is one slice of a larger ordered list.
type Page[T any] struct {
	Items  []T
	Number int // 1-based
	Total  int // size of the full list
	Size   int
}

// TotalPages is ceil(Total/Size), never less than 1.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages() }

// Slice cuts page number out of items. Pages outside the list yield no items.
func Slice[T any](items []T, number, size int) Page[T] {
	p := Page[T]{Number: number, Total: len(items), Size: size}
	if number < 1 || size <= 0 {
		p.Items = []T{}
		return p
	}
	start := (number - 1) * size
	if start >= len(items) {
		p.Items = []T{}
		return p
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	p.Items = items[start:end]
	return p
}

// Paginate drops administrators, orders the rest newest first and returns
// the requested page. The input slice is not modified.
func Paginate(users []models.User, number, size int) Page[models.User] {
	eligible := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		eligible = append(eligible, u)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].CreatedAt.After(eligible[j].CreatedAt)
	})
	return Slice(eligible, number, size)
}

// Link is one entry of a rendered pager.
type Link struct {
	Label   string
	Page    int
	Current bool
}

// Links holds the navigation targets around the current page.
type Links struct {
	First  int
	Prev   int
	Next   int
	Last   int
	Window []Link
}

// PageLinks builds the pager for current out of total pages, showing at most
// window numbered links centred on current where possible.
func PageLinks(current, total, window int) Links {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	if window < 1 {
		window = 1
	}

	l := Links{First: 1, Last: total, Prev: current - 1, Next: current + 1}
	if l.Prev < 1 {
		l.Prev = 1
	}
	if l.Next > total {
		l.Next = total
	}

	start := current - window/2
	if start+window-1 > total {
		start = total - window + 1
	}
	if start < 1 {
		start = 1
	}
	for n := start; n <= total && n < start+window; n++ {
		l.Window = append(l.Window, Link{Label: strconv.Itoa(n), Page: n, Current: n == current})
	}
	return l
}
