// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleAdmin is the role name that marks an administrator account.
const RoleAdmin = "Admin"

// User is a registered account. Administrators carry RoleAdmin in Roles;
// everyone else is a regular shop customer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Roles        []string           `bson:"roles,omitempty" json:"roles,omitempty"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the user holds role. Comparison ignores case.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an administrator.
func (u User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
