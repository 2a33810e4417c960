package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it twice on the same request keeps both parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user created at createdAt. Pass models.RoleAdmin in
// roles for an administrator.
func (f *Fixtures) CreateUser(ctx context.Context, username string, createdAt time.Time, roles ...string) models.User {
	f.t.Helper()

	u := models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		UsernameCI: text.Fold(username),
		Roles:      roles,
		CreatedAt:  createdAt.UTC(),
		UpdatedAt:  createdAt.UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

// CreateCar inserts a car owned by owner.
func (f *Fixtures) CreateCar(ctx context.Context, owner models.User, registration string) models.Car {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Car{
		ID:           primitive.NewObjectID(),
		CustomerName: "Customer " + registration,
		VIN:          "VIN" + registration,
		Registration: registration,
		Make:         "VW Golf",
		Engine:       "1.9 TDI",
		Owner:        models.OwnerRef{ID: owner.ID, Username: owner.Username},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("cars").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("CreateCar(%s): %v", registration, err)
	}
	return c
}

// CreateRepair inserts a repair on car dated date.
func (f *Fixtures) CreateRepair(ctx context.Context, car models.Car, date time.Time, km int, profit string) models.Repair {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Repair{
		ID:          primitive.NewObjectID(),
		Date:        date.UTC(),
		KM:          km,
		Profit:      profit,
		Description: "Service",
		CarID:       car.ID,
		Owner:       car.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("repairs").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("CreateRepair: %v", err)
	}
	return r
}
