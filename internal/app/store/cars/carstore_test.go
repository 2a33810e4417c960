package carstore_test

import (
	"testing"
	"time"

	carstore "github.com/dalemusser/repairhub/internal/app/store/cars"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/repairhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := carstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "ivan", time.Now())
	created, err := store.Create(ctx, models.Car{
		CustomerName: " Georgi ",
		VIN:          "wvwzzz1jzxw000001",
		Registration: " ca1234ab ",
		Make:         "VW Golf",
		Engine:       "1.9 TDI",
		Owner:        models.OwnerRef{ID: owner.ID, Username: owner.Username},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Registration != "CA1234AB" || created.VIN != "WVWZZZ1JZXW000001" || created.CustomerName != "Georgi" {
		t.Errorf("normalized car = %+v", created)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Owner.Username != "ivan" {
		t.Errorf("owner = %+v", got.Owner)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("missing car: err = %v", err)
	}
}

func TestStore_Create_RequiresOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := carstore.New(db).Create(ctx, models.Car{Registration: "X"}); err == nil {
		t.Error("expected error for car without owner")
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := carstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ivan := fx.CreateUser(ctx, "ivan", time.Now())
	maria := fx.CreateUser(ctx, "maria", time.Now())
	fx.CreateCar(ctx, ivan, "A1")
	fx.CreateCar(ctx, ivan, "A2")
	fx.CreateCar(ctx, maria, "B1")

	cars, err := store.ListByOwner(ctx, ivan.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("got %d cars, want 2", len(cars))
	}
	for _, c := range cars {
		if c.Owner.ID != ivan.ID {
			t.Errorf("car %s belongs to %s", c.Registration, c.Owner.Username)
		}
	}
}
