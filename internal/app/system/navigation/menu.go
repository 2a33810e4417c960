package navigation

import (
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audience is who the menu is rendered for.
type Audience int

const (
	Guest Audience = iota
	User
	Admin
)

// Item is one menu link.
type Item struct {
	Label  string
	Href   string
	Active bool
}

// Menu is the navigation a page renders. Exactly one of the three groups is
// shown: guests see the login link, users see their cars, administrators see
// the dashboard plus, while browsing as a user, that user's pages.
type Menu struct {
	Audience   Audience
	Items      []Item
	BrowsingAs string // username being browsed, empty otherwise
	Prefix     string // prepended to every user-scoped link
}

// ShowAdmin reports whether admin-only links are visible.
func (m Menu) ShowAdmin() bool { return m.Audience == Admin }

// ShowUser reports whether user links are visible.
func (m Menu) ShowUser() bool { return m.Audience == User || m.BrowsingAs != "" }

// ShowGuest reports whether the guest links are visible.
func (m Menu) ShowGuest() bool { return m.Audience == Guest }

// BrowsePrefix is the path prefix an administrator uses to view a user's
// pages, e.g. /admin/<id>.
func BrowsePrefix(userID primitive.ObjectID) string {
	if userID.IsZero() {
		return ""
	}
	return "/admin/" + userID.Hex()
}

// UserPath joins a user-scoped path onto prefix. With an empty prefix the
// path is returned unchanged.
func UserPath(prefix, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(prefix, "/") + path
}

// Build returns the menu for the given audience and current path. browseID
// and browseName describe the user an administrator is browsing as, if any.
func Build(aud Audience, current string, browseID primitive.ObjectID, browseName string) Menu {
	m := Menu{Audience: aud}

	switch aud {
	case Guest:
		m.Items = []Item{{Label: "Login", Href: "/login"}}
	case User:
		m.Items = []Item{
			{Label: "My cars", Href: "/cars"},
			{Label: "Logout", Href: "/logout"},
		}
	case Admin:
		m.Items = []Item{{Label: "Dashboard", Href: "/admin"}}
		if !browseID.IsZero() {
			m.BrowsingAs = browseName
			m.Prefix = BrowsePrefix(browseID)
			m.Items = append(m.Items, Item{
				Label: browseName + ": cars",
				Href:  UserPath(m.Prefix, "/cars"),
			})
		}
		m.Items = append(m.Items, Item{Label: "Logout", Href: "/logout"})
	}

	cur := cleanPath(current)
	for i := range m.Items {
		m.Items[i].Active = cleanPath(m.Items[i].Href) == cur
	}
	return m
}

func cleanPath(p string) string {
	if u, err := url.Parse(p); err == nil {
		p = u.Path
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
