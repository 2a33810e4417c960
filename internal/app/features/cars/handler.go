// internal/app/features/cars/handler.go
package cars

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CarLister lists the cars a user owns. *carstore.Store satisfies it.
type CarLister interface {
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Car, error)
}

type Handler struct {
	Cars   CarLister
	Users  UserLookup
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(cars CarLister, users UserLookup, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Cars:   cars,
		Users:  users,
		ErrLog: errLog,
		Log:    logger,
	}
}

type carRow struct {
	CustomerName string
	Registration string
	Make         string
	Engine       string
	VIN          string
	Added        string
	RepairsURL   string
}

type carsData struct {
	viewdata.BaseVM
	Owner string
	Cars  []carRow
}

// FailScope answers a request whose scope could not be resolved.
func FailScope(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger, err error) {
	switch {
	case errors.Is(err, ErrNotAllowed):
		uierrors.RenderForbidden(w, r, "You do not have access to this user's records.", "/")
	case errors.Is(err, ErrUnknownUser):
		uierrors.RenderNotFound(w, r, "User not found.", "/admin")
	default:
		errLog.LogServerError(w, r, "resolve page owner failed", err, viewdata.Locale().GenericError(), "/")
	}
}

// ServeList shows the cars of the current user, or of the browsed user.
// GET /cars
// GET /admin/{userID}/cars
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "car list")
	defer cancel()

	scope, err := ResolveScope(ctx, r, h.Users)
	if err != nil {
		FailScope(w, r, h.ErrLog, err)
		return
	}

	cars, err := h.Cars.ListByOwner(ctx, scope.Owner)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list cars failed", err, viewdata.Locale().GenericError(), "/")
		return
	}

	data := carsData{
		BaseVM: viewdata.NewBaseVM(r, "Cars", "/"),
		Owner:  scope.Username,
		Cars:   carRows(scope, cars),
	}
	scope.Decorate(&data.BaseVM)

	templates.Render(w, r, "cars_list", data)
}

func carRows(scope Scope, cars []models.Car) []carRow {
	loc := viewdata.Locale()
	rows := make([]carRow, 0, len(cars))
	for _, c := range cars {
		rows = append(rows, carRow{
			CustomerName: c.CustomerName,
			Registration: c.Registration,
			Make:         c.Make,
			Engine:       c.Engine,
			VIN:          c.VIN,
			Added:        loc.Day(c.CreatedAt),
			RepairsURL:   scope.Path("/cars/" + c.ID.Hex() + "/repairs"),
		})
	}
	return rows
}
