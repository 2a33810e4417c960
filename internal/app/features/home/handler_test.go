package home_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/repairhub/internal/app/features/home"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/testutil"
	"go.uber.org/zap"
)

func TestLanding(t *testing.T) {
	tests := []struct {
		name string
		user *auth.SessionUser
		want string
	}{
		{"admin", &auth.SessionUser{Role: auth.RoleAdmin}, "/admin"},
		{"user", &auth.SessionUser{Role: auth.RoleUser}, "/cars"},
		{"nil", nil, "/cars"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := home.Landing(tc.user); got != tc.want {
				t.Errorf("Landing = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestServeRoot_SignedInRedirects(t *testing.T) {
	h := home.NewHandler(zap.NewNop())

	tests := []struct {
		user testutil.TestUser
		want string
	}{
		{testutil.AdminUser(), "/admin"},
		{testutil.RegularUser(), "/cars"},
	}
	for _, tc := range tests {
		rec := testutil.NewRecorder()
		h.ServeRoot(rec, testutil.NewAuthenticatedRequest("GET", "/", tc.user))
		rec.AssertRedirect(t, tc.want)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d", rec.Code)
		}
	}
}
