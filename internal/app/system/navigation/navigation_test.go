package navigation

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuild_Visibility(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name               string
		aud                Audience
		browse             primitive.ObjectID
		admin, user, guest bool
		wantItems          int
	}{
		{"guest", Guest, primitive.NilObjectID, false, false, true, 1},
		{"user", User, primitive.NilObjectID, false, true, false, 2},
		{"admin", Admin, primitive.NilObjectID, true, false, false, 2},
		{"admin browsing", Admin, id, true, true, false, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Build(tc.aud, "/", tc.browse, "ivan")
			if m.ShowAdmin() != tc.admin || m.ShowUser() != tc.user || m.ShowGuest() != tc.guest {
				t.Errorf("admin/user/guest = %v/%v/%v, want %v/%v/%v",
					m.ShowAdmin(), m.ShowUser(), m.ShowGuest(), tc.admin, tc.user, tc.guest)
			}
			if len(m.Items) != tc.wantItems {
				t.Errorf("items = %d, want %d", len(m.Items), tc.wantItems)
			}
		})
	}
}

func TestBuild_BrowsePrefix(t *testing.T) {
	id := primitive.NewObjectID()
	m := Build(Admin, "/admin/"+id.Hex()+"/cars?page=2", id, "ivan")

	if m.Prefix != "/admin/"+id.Hex() {
		t.Errorf("Prefix = %q", m.Prefix)
	}
	if m.BrowsingAs != "ivan" {
		t.Errorf("BrowsingAs = %q", m.BrowsingAs)
	}
	if !m.Items[1].Active || m.Items[1].Href != "/admin/"+id.Hex()+"/cars" {
		t.Errorf("browse item = %+v", m.Items[1])
	}
	if m.Items[0].Active {
		t.Error("dashboard link should not be active")
	}
}

func TestUserPath(t *testing.T) {
	if got := UserPath("", "/cars"); got != "/cars" {
		t.Errorf("UserPath empty prefix = %q", got)
	}
	if got := UserPath("/admin/abc/", "cars/1/repairs"); got != "/admin/abc/cars/1/repairs" {
		t.Errorf("UserPath = %q", got)
	}
	if BrowsePrefix(primitive.NilObjectID) != "" {
		t.Error("nil ID should give empty prefix")
	}
}

func TestSafeBackURL(t *testing.T) {
	opts := BackURLOptions{AllowedPrefix: "/cars", ExcludedSubpaths: []string{"/export.xlsx"}, Fallback: "/cars"}

	tests := []struct {
		url  string
		want string
	}{
		{"/x?return=/cars/1/repairs", "/cars/1/repairs"},
		{"/x?return=/admin", "/cars"},
		{"/x?return=/cars/1/repairs/export.xlsx", "/cars"},
		{"/x", "/cars"},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", tc.url, nil)
		if got := SafeBackURL(r, opts); got != tc.want {
			t.Errorf("SafeBackURL(%s) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
