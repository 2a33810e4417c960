package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(id primitive.ObjectID, role string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	return auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Name: "tester", Role: role})
}

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	role, name, uid, ok := authz.UserCtx(requestAs(id, "Admin"))
	if !ok || role != "admin" || name != "tester" || uid != id {
		t.Errorf("UserCtx = %q %q %v %v", role, name, uid, ok)
	}

	role, _, _, ok = authz.UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok || role != "visitor" {
		t.Errorf("no user: role=%q ok=%v", role, ok)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "nope", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed ID")
	}
	if authz.IsAdmin(req) {
		t.Error("malformed session must not be admin")
	}
}

func TestCanViewOwner(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if !authz.CanViewOwner(requestAs(me, auth.RoleUser), me) {
		t.Error("user should see own data")
	}
	if authz.CanViewOwner(requestAs(me, auth.RoleUser), other) {
		t.Error("user should not see another user's data")
	}
	if !authz.CanViewOwner(requestAs(me, auth.RoleAdmin), other) {
		t.Error("admin should see any user's data")
	}
}

func TestEffectiveOwner(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name         string
		role         string
		browseAs     string
		wantOwner    primitive.ObjectID
		wantBrowsing bool
		wantOK       bool
	}{
		{"user own data", auth.RoleUser, "", me, false, true},
		{"user cannot browse", auth.RoleUser, other.Hex(), primitive.NilObjectID, false, false},
		{"admin browses", auth.RoleAdmin, other.Hex(), other, true, true},
		{"admin browses self", auth.RoleAdmin, me.Hex(), me, false, true},
		{"admin bad id", auth.RoleAdmin, "xyz", primitive.NilObjectID, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			owner, browsing, ok := authz.EffectiveOwner(requestAs(me, tc.role), tc.browseAs)
			if owner != tc.wantOwner || browsing != tc.wantBrowsing || ok != tc.wantOK {
				t.Errorf("got (%v, %v, %v), want (%v, %v, %v)", owner, browsing, ok, tc.wantOwner, tc.wantBrowsing, tc.wantOK)
			}
		})
	}
}
