// internal/app/features/repairs/handler.go
package repairs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/repairhub/internal/app/features/cars"
	uierrors "github.com/dalemusser/repairhub/internal/app/features/errors"
	"github.com/dalemusser/repairhub/internal/app/system/authz"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Route parameters.
const (
	ParamCar    = "carID"
	ParamRepair = "repairID"
)

var (
	// ErrForbidden means the car or repair belongs to someone the caller may
	// not see.
	ErrForbidden = errors.New("record belongs to another user")
	// ErrNotFound means the record does not exist under the requested path.
	ErrNotFound = errors.New("record not found")
)

// CarGetter loads one car. *carstore.Store satisfies it.
type CarGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error)
}

// RepairSource reads repairs. *repairstore.Store satisfies it.
type RepairSource interface {
	ListByCar(ctx context.Context, carID primitive.ObjectID) ([]models.Repair, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Repair, error)
}

// Options tunes the catalog. Zero values fall back to the paging defaults.
type Options struct {
	PageSize  int
	PageLinks int
	Shop      models.ShopInfo
}

type Handler struct {
	Cars    CarGetter
	Repairs RepairSource
	Users   cars.UserLookup
	Shop    models.ShopInfo
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger

	pageSize  int
	pageLinks int
}

func NewHandler(carSrc CarGetter, repairs RepairSource, users cars.UserLookup, opts Options, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = paging.ItemsPerPage
	}
	if opts.PageLinks <= 0 {
		opts.PageLinks = paging.RelativePageLinks
	}
	if opts.Shop == (models.ShopInfo{}) {
		opts.Shop = models.DefaultShopInfo
	}
	return &Handler{
		Cars:      carSrc,
		Repairs:   repairs,
		Users:     users,
		Shop:      opts.Shop,
		ErrLog:    errLog,
		Log:       logger,
		pageSize:  opts.PageSize,
		pageLinks: opts.PageLinks,
	}
}

// checkOwner decides whether a record owned by owner may be shown in scope.
// Records the caller cannot see at all are forbidden; records reached through
// the wrong browse prefix are reported missing.
func checkOwner(r *http.Request, scope cars.Scope, owner primitive.ObjectID) error {
	if !authz.CanViewOwner(r, owner) {
		return ErrForbidden
	}
	if owner != scope.Owner {
		return ErrNotFound
	}
	return nil
}

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// loadCar resolves the page scope and the car named in the path.
func (h *Handler) loadCar(ctx context.Context, r *http.Request) (cars.Scope, *models.Car, error) {
	scope, err := cars.ResolveScope(ctx, r, h.Users)
	if err != nil {
		return cars.Scope{}, nil, err
	}

	carID, err := objectIDParam(r, ParamCar)
	if err != nil {
		return scope, nil, err
	}
	car, err := h.Cars.GetByID(ctx, carID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return scope, nil, ErrNotFound
	}
	if err != nil {
		return scope, nil, err
	}
	if err := checkOwner(r, scope, car.Owner.ID); err != nil {
		return scope, nil, err
	}
	return scope, car, nil
}

// loadRepair loads the repair named in the path and checks it belongs to car.
func (h *Handler) loadRepair(ctx context.Context, r *http.Request, car *models.Car) (*models.Repair, error) {
	repairID, err := objectIDParam(r, ParamRepair)
	if err != nil {
		return nil, err
	}
	rep, err := h.Repairs.GetByID(ctx, repairID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rep.CarID != car.ID {
		return nil, ErrNotFound
	}
	return rep, nil
}

// fail maps a lookup error to a response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, scope cars.Scope, logMsg string, err error) {
	back := scope.Path("/cars")
	switch {
	case errors.Is(err, cars.ErrNotAllowed), errors.Is(err, cars.ErrUnknownUser):
		cars.FailScope(w, r, h.ErrLog, err)
	case errors.Is(err, ErrForbidden):
		uierrors.RenderForbidden(w, r, "You do not have access to this record.", back)
	case errors.Is(err, ErrNotFound):
		uierrors.RenderNotFound(w, r, "Record not found.", back)
	default:
		h.ErrLog.LogServerError(w, r, logMsg, err, viewdata.Locale().GenericError(), back)
	}
}
