package cars

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/viewdata"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/repairhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUsers map[primitive.ObjectID]models.User

func (f fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

type brokenUsers struct{}

func (brokenUsers) GetByID(context.Context, primitive.ObjectID) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestResolveScope_OwnData(t *testing.T) {
	user := testutil.RegularUser()
	req := testutil.NewAuthenticatedRequest("GET", "/cars", user)

	s, err := ResolveScope(context.Background(), req, fakeUsers{})
	require.NoError(t, err)
	assert.Equal(t, user.ObjectID(), s.Owner)
	assert.Equal(t, "ivan", s.Username)
	assert.False(t, s.Browsing)
	assert.Equal(t, "/cars/x/repairs", s.Path("/cars/x/repairs"))
}

func TestResolveScope_AdminBrowses(t *testing.T) {
	target := models.User{ID: primitive.NewObjectID(), Username: "petar"}
	req := testutil.NewAuthenticatedRequest("GET", "/admin/"+target.ID.Hex()+"/cars", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, ParamUser, target.ID.Hex())

	s, err := ResolveScope(context.Background(), req, fakeUsers{target.ID: target})
	require.NoError(t, err)
	assert.Equal(t, target.ID, s.Owner)
	assert.Equal(t, "petar", s.Username)
	assert.True(t, s.Browsing)
	assert.Equal(t, "/admin/"+target.ID.Hex()+"/cars", s.Path("/cars"))
}

func TestResolveScope_Errors(t *testing.T) {
	missing := primitive.NewObjectID()

	tests := []struct {
		name  string
		user  testutil.TestUser
		param string
		users UserLookup
		want  error
	}{
		{"user cannot browse", testutil.RegularUser(), missing.Hex(), fakeUsers{}, ErrNotAllowed},
		{"malformed id", testutil.AdminUser(), "not-an-id", fakeUsers{}, ErrNotAllowed},
		{"unknown user", testutil.AdminUser(), missing.Hex(), fakeUsers{}, ErrUnknownUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest("GET", "/admin/x/cars", tc.user)
			req = testutil.WithChiURLParam(req, ParamUser, tc.param)
			_, err := ResolveScope(context.Background(), req, tc.users)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestResolveScope_LookupFailure(t *testing.T) {
	req := testutil.NewAuthenticatedRequest("GET", "/", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, ParamUser, primitive.NewObjectID().Hex())

	_, err := ResolveScope(context.Background(), req, brokenUsers{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownUser)
	assert.NotErrorIs(t, err, ErrNotAllowed)
}

func TestScopeDecorate(t *testing.T) {
	admin := testutil.AdminUser()
	target := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/admin/"+target.Hex()+"/cars", admin)

	vm := viewdata.NewBaseVM(req, "Cars", "/")
	Scope{Owner: target, Username: "petar", Browsing: true}.Decorate(&vm)
	assert.Equal(t, "petar", vm.Menu.BrowsingAs)

	plain := viewdata.NewBaseVM(req, "Cars", "/")
	Scope{Owner: target}.Decorate(&plain)
	assert.Empty(t, plain.Menu.BrowsingAs)
}

func TestCarRows(t *testing.T) {
	id := primitive.NewObjectID()
	cars := []models.Car{{
		ID:           id,
		CustomerName: "Ivan Ivanov",
		Registration: "CA1234AB",
		Make:         "VW Golf",
		CreatedAt:    time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	}}

	rows := carRows(Scope{Prefix: "/admin/abc"}, cars)
	require.Len(t, rows, 1)
	assert.Equal(t, "/admin/abc/cars/"+id.Hex()+"/repairs", rows[0].RepairsURL)
	assert.Equal(t, "CA1234AB", rows[0].Registration)
	assert.NotEmpty(t, rows[0].Added)
}
