// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/dalemusser/repairhub/internal/app/system/authz"
	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/app/system/navigation"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	type carsData struct {
//	    viewdata.BaseVM
//	    Cars []carRow
//	}
type BaseVM struct {
	SiteName string
	Lang     string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Menu        navigation.Menu

	// Flash-style messages rendered as a toast.
	Toast string
}

var (
	mu  sync.RWMutex
	loc = locale.New("en", nil)
)

// Init sets the locale used by every view model. Call once at startup.
func Init(l *locale.Locale) {
	if l == nil {
		return
	}
	mu.Lock()
	loc = l
	mu.Unlock()
}

// Locale returns the configured locale.
func Locale() *locale.Locale {
	mu.RLock()
	defer mu.RUnlock()
	return loc
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	aud := navigation.Guest
	switch {
	case signedIn && authz.IsAdmin(r):
		aud = navigation.Admin
	case signedIn:
		aud = navigation.User
	}

	cur := httpnav.CurrentPath(r)
	return BaseVM{
		SiteName:    models.DefaultSiteName,
		Lang:        Locale().Lang(),
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: cur,
		Menu:        navigation.Build(aud, cur, primitive.NilObjectID, ""),
	}
}

// Browsing rebuilds the menu for an administrator viewing another user's
// pages. It is a no-op for non-admins.
func (b *BaseVM) Browsing(userID primitive.ObjectID, username string) {
	if b.Menu.Audience != navigation.Admin {
		return
	}
	b.Menu = navigation.Build(navigation.Admin, b.CurrentPath, userID, username)
}
