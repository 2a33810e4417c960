package userstore

import (
	"context"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to refresh the session user on each
// request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// SessionUser converts a stored user into the identity kept in the session.
func SessionUser(u models.User) *auth.SessionUser {
	role := auth.RoleUser
	if u.IsAdmin() {
		role = auth.RoleAdmin
	}
	return &auth.SessionUser{ID: u.ID.Hex(), Name: u.Username, Role: role}
}

// FetchUser loads the user with id. A malformed id or a missing user yields
// auth.ErrUserGone; other errors are returned as is.
func (f *Fetcher) FetchUser(ctx context.Context, id string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrUserGone
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "username": 1, "roles": 1})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, auth.ErrUserGone
		}
		return nil, err
	}
	return SessionUser(u), nil
}
