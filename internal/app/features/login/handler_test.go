package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/features/login"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/ratelimit"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/repairhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAuth map[string]models.User // keyed by "username:password"

func (f fakeAuth) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	u, ok := f[username+":"+password]
	if !ok {
		return nil, userstore.ErrBadCredentials
	}
	return &u, nil
}

func newTestHandler(t *testing.T, users login.Authenticator) (*login.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return login.NewHandler(users, sm, uierrors.NewErrorLogger(logger), logger), sm
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

func TestHandleLoginPost_RedirectsByRole(t *testing.T) {
	users := fakeAuth{
		"boss:pw": {ID: primitive.NewObjectID(), Username: "boss", Roles: []string{"Admin"}},
		"ivan:pw": {ID: primitive.NewObjectID(), Username: "ivan"},
	}
	h, _ := newTestHandler(t, users)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"admin lands on dashboard", url.Values{"username": {"boss"}, "password": {"pw"}}, "/admin"},
		{"user lands on cars", url.Values{"username": {"ivan"}, "password": {"pw"}}, "/cars"},
		{"return url wins", url.Values{"username": {"ivan"}, "password": {"pw"}, "return": {"/cars?page=2"}}, "/cars?page=2"},
		{"external return ignored", url.Values{"username": {"ivan"}, "password": {"pw"}, "return": {"https://evil.example"}}, "/cars"},
		{"login return ignored", url.Values{"username": {"boss"}, "password": {"pw"}, "return": {"/login"}}, "/admin"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postLogin(h, tc.form)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tc.want {
				t.Errorf("Location = %q, want %q", loc, tc.want)
			}
		})
	}
}

func TestHandleLoginPost_SetsSession(t *testing.T) {
	id := primitive.NewObjectID()
	h, sm := newTestHandler(t, fakeAuth{"ivan:pw": {ID: id, Username: "ivan"}})

	rec := postLogin(h, url.Values{"username": {"ivan"}, "password": {"pw"}})
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	next := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/cars", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	next.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != id.Hex() || got.Role != auth.RoleUser {
		t.Errorf("session user = %+v", got)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h, _ := newTestHandler(t, fakeAuth{})

	rec := testutil.NewRecorder()
	h.ServeLogin(rec, testutil.NewAuthenticatedRequest("GET", "/login", testutil.AdminUser()))
	rec.AssertRedirect(t, "/admin")
}

func TestHandleLoginPost_SuccessResetsThrottle(t *testing.T) {
	users := fakeAuth{"ivan:pw": {ID: primitive.NewObjectID(), Username: "ivan"}}
	h, _ := newTestHandler(t, users)
	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)
	defer h.Limiter.Stop()

	form := url.Values{"username": {"ivan"}, "password": {"pw"}}
	for i := 0; i < 3; i++ {
		if rec := postLogin(h, form); rec.Code != http.StatusSeeOther {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, rec.Code, http.StatusSeeOther)
		}
	}
}
