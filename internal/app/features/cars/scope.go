// internal/app/features/cars/scope.go
package cars

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/authz"
	"github.com/dalemusser/repairhub/internal/app/system/navigation"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ParamUser is the route parameter an administrator uses to browse as a user.
const ParamUser = "userID"

var (
	// ErrNotAllowed means the caller may not see the requested user's data.
	ErrNotAllowed = errors.New("not allowed to browse this user")
	// ErrUnknownUser means the browsed user does not exist.
	ErrUnknownUser = errors.New("browsed user not found")
)

// UserLookup finds a user by ID. *userstore.Store satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Scope is whose pages a request shows and under which path prefix.
type Scope struct {
	Owner    primitive.ObjectID
	Username string
	Browsing bool   // an administrator is looking at someone else's data
	Prefix   string // "/admin/<id>" on browse routes, empty otherwise
}

// Path joins a user-scoped path onto the scope's prefix.
func (s Scope) Path(p string) string { return navigation.UserPath(s.Prefix, p) }

// Decorate switches the page menu to the browse-as-user variant.
func (s Scope) Decorate(vm *viewdata.BaseVM) {
	if s.Browsing {
		vm.Browsing(s.Owner, s.Username)
	}
}

// ResolveScope works out the owner for r. On browse routes the user named by
// the {userID} parameter must exist and the caller must be an administrator.
func ResolveScope(ctx context.Context, r *http.Request, users UserLookup) (Scope, error) {
	browseAs := chi.URLParam(r, ParamUser)
	owner, browsing, ok := authz.EffectiveOwner(r, browseAs)
	if !ok {
		return Scope{}, ErrNotAllowed
	}

	s := Scope{Owner: owner, Browsing: browsing}
	if browseAs != "" {
		s.Prefix = navigation.BrowsePrefix(owner)
	}

	if !browsing {
		if u, ok := auth.CurrentUser(r); ok {
			s.Username = u.Name
		}
		return s, nil
	}

	u, err := users.GetByID(ctx, owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Scope{}, ErrUnknownUser
	}
	if err != nil {
		return Scope{}, err
	}
	s.Username = u.Username
	return s, nil
}
