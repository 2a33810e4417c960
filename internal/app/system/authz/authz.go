// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/repairhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an administrator.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == auth.RoleAdmin
}

// CanViewOwner reports whether the current user may read data owned by
// ownerID: their own records, or anyone's when they are an administrator.
func CanViewOwner(r *http.Request, ownerID primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == auth.RoleAdmin || uid == ownerID
}

// EffectiveOwner resolves whose data a page shows. Administrators may browse
// as another user by passing that user's hex ID; everyone else always sees
// their own data. ok is false when the caller is signed out, passed a
// malformed ID, or is not allowed to browse as someone else.
func EffectiveOwner(r *http.Request, browseAs string) (owner primitive.ObjectID, browsing bool, ok bool) {
	role, _, uid, signedIn := UserCtx(r)
	if !signedIn {
		return primitive.NilObjectID, false, false
	}
	browseAs = strings.TrimSpace(browseAs)
	if browseAs == "" {
		return uid, false, true
	}
	if role != auth.RoleAdmin {
		return primitive.NilObjectID, false, false
	}
	oid, err := primitive.ObjectIDFromHex(browseAs)
	if err != nil {
		return primitive.NilObjectID, false, false
	}
	return oid, oid != uid, true
}
