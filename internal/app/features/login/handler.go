// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/features/home"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/inputval"
	"github.com/dalemusser/repairhub/internal/app/system/navigation"
	"github.com/dalemusser/repairhub/internal/app/system/ratelimit"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Authenticator checks a username and password. *userstore.Store satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type Handler struct {
	Users      Authenticator
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Limiter throttles attempts. Nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(users Authenticator, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Username  string
	ReturnURL string
	Error     string
}

type loginInput struct {
	Username string `validate:"required,max=64" label:"Username"`
	Password string `validate:"required,max=256" label:"Password"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, home.Landing(u), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	in := loginInput{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderFormWithError(w, r, res.First(), in.Username)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Username); !ok {
			h.Log.Warn("login throttled",
				zap.String("username", in.Username),
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderForm(w, r, http.StatusTooManyRequests, reason, in.Username)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, in.Username, in.Password)
	if errors.Is(err, userstore.ErrBadCredentials) {
		h.Log.Info("login failed", zap.String("username", in.Username))
		h.renderFormWithError(w, r, "Invalid username or password.", in.Username)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, viewdata.Locale().GenericError(), "/login")
		return
	}

	su := userstore.SessionUser(*u)
	if err := h.SessionMgr.Login(w, r, su); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", su.ID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", in.Username)
		return
	}

	if h.Limiter != nil {
		h.Limiter.Succeeded(in.Username)
	}
	h.Log.Info("login succeeded",
		zap.String("user_id", su.ID),
		zap.String("role", su.Role))

	opts := navigation.LoginReturnURL
	opts.Fallback = home.Landing(su)
	http.Redirect(w, r, navigation.SafeBackURL(r, opts), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	h.renderForm(w, r, http.StatusUnprocessableEntity, msg, username)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, msg, username string) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Username:  username,
		ReturnURL: strings.TrimSpace(r.FormValue("return")),
		Error:     msg,
	})
}
