// internal/domain/models/car.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Car is a customer vehicle registered by a shop user.
type Car struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName string             `bson:"customer_name"`
	VIN          string             `bson:"vin"`
	Registration string             `bson:"registration"`
	Make         string             `bson:"make"` // make and model, free text
	Engine       string             `bson:"engine"`
	Owner        OwnerRef           `bson:"owner"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}
