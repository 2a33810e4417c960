// internal/domain/models/repair.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerRef identifies the user a car or repair belongs to. The username is
// denormalized so listings never need a join.
type OwnerRef struct {
	ID       primitive.ObjectID `bson:"id"`
	Username string             `bson:"username"`
}

// Repair is one job performed on a car.
//
// Profit is kept exactly as entered. It may be empty or unparseable; readers
// that need a number treat those as zero.
type Repair struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Date        time.Time          `bson:"date"`
	KM          int                `bson:"km"`
	Profit      string             `bson:"profit,omitempty"`
	Description string             `bson:"description"`
	CarID       primitive.ObjectID `bson:"car_id"`
	Owner       OwnerRef           `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}
