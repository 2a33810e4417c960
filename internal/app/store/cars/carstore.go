package carstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/repairhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errNoOwner = errors.New("car must have an owner")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cars")}
}

// ListByOwner returns the cars owned by owner, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Car, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"owner.id": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Car, 0, 16)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a car by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	var c models.Car
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create trims the text fields and inserts a new car.
func (s *Store) Create(ctx context.Context, c models.Car) (models.Car, error) {
	if c.Owner.ID.IsZero() {
		return models.Car{}, errNoOwner
	}
	c.ID = primitive.NewObjectID()
	c.CustomerName = strings.TrimSpace(c.CustomerName)
	c.VIN = strings.ToUpper(strings.TrimSpace(c.VIN))
	c.Registration = strings.ToUpper(strings.TrimSpace(c.Registration))
	c.Make = strings.TrimSpace(c.Make)
	c.Engine = strings.TrimSpace(c.Engine)

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Car{}, err
	}
	return c, nil
}
