package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/indexes"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/repairhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "  Ivan ", "s3cret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Username != "Ivan" || created.UsernameCI != "ivan" {
		t.Errorf("username = %q / %q", created.Username, created.UsernameCI)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret" {
		t.Error("expected password to be hashed")
	}

	u, err := store.Authenticate(ctx, "IVAN", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("authenticated wrong user %v", u.ID)
	}

	if _, err := store.Authenticate(ctx, "ivan", "wrong"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, " ", "pw"); err == nil {
		t.Error("expected error for blank username")
	}
	if _, err := store.Create(ctx, "ivan", ""); err == nil {
		t.Error("expected error for blank password")
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, "Maria", "pw"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, "maria", "pw"); !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_AllUsers_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fx.CreateUser(ctx, "old", base)
	fx.CreateUser(ctx, "admin", base.Add(time.Hour), models.RoleAdmin)
	fx.CreateUser(ctx, "new", base.Add(2*time.Hour))

	users, err := store.AllUsers(ctx)
	if err != nil {
		t.Fatalf("AllUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users, want 3", len(users))
	}
	want := []string{"new", "admin", "old"}
	for i, u := range users {
		if u.Username != want[i] {
			t.Errorf("users[%d] = %q, want %q", i, u.Username, want[i])
		}
	}
}

func TestStore_SetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "petar", "old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.SetPassword(ctx, u.ID, "new"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, err := store.Authenticate(ctx, "petar", "new"); err != nil {
		t.Errorf("Authenticate with new password: %v", err)
	}
	if err := store.SetPassword(ctx, primitive.NewObjectID(), "x"); err != mongo.ErrNoDocuments {
		t.Errorf("missing user: err = %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "boss", time.Now(), "admin")
	f := userstore.NewFetcher(db)

	su, err := f.FetchUser(ctx, admin.ID.Hex())
	if err != nil {
		t.Fatalf("FetchUser: %v", err)
	}
	if su.Name != "boss" || su.Role != auth.RoleAdmin {
		t.Errorf("session user = %+v", su)
	}

	if _, err := f.FetchUser(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, auth.ErrUserGone) {
		t.Errorf("missing user: err = %v", err)
	}
	if _, err := f.FetchUser(ctx, "bad"); !errors.Is(err, auth.ErrUserGone) {
		t.Errorf("malformed id: err = %v", err)
	}
}

func TestSessionUser_Role(t *testing.T) {
	id := primitive.NewObjectID()
	if got := userstore.SessionUser(models.User{ID: id, Username: "a", Roles: []string{"ADMIN"}}); got.Role != auth.RoleAdmin {
		t.Errorf("role = %q", got.Role)
	}
	if got := userstore.SessionUser(models.User{ID: id, Username: "b"}); got.Role != auth.RoleUser || got.ID != id.Hex() {
		t.Errorf("session user = %+v", got)
	}
}
