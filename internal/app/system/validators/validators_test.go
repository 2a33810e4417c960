package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/validators"
	"github.com/dalemusser/repairhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_IdempotentAndCreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := validators.EnsureAll(ctx, db); err != nil {
			t.Fatalf("EnsureAll run %d failed: %v", i+1, err)
		}
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "cars", "repairs"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"roles": bson.A{"Admin"}}); err == nil {
		t.Error("expected validation error for user without username")
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"username":    "ivan",
		"username_ci": "ivan",
		"created_at":  time.Now(),
	})
	if err != nil {
		t.Errorf("insert valid user failed: %v", err)
	}
}

func TestRepairsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	owner := bson.M{"id": primitive.NewObjectID(), "username": "ivan"}

	_, err := db.Collection("repairs").InsertOne(ctx, bson.M{
		"date":   time.Now(),
		"km":     -5,
		"car_id": primitive.NewObjectID(),
		"owner":  owner,
	})
	if err == nil {
		t.Error("expected validation error for negative km")
	}

	_, err = db.Collection("repairs").InsertOne(ctx, bson.M{
		"date":   time.Now(),
		"km":     1200,
		"profit": "not a number",
		"car_id": primitive.NewObjectID(),
		"owner":  owner,
	})
	if err != nil {
		t.Errorf("insert repair with free-text profit failed: %v", err)
	}
}
