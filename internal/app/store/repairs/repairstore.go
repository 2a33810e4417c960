package repairstore

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

var (
	errNoCar      = errors.New("repair must belong to a car")
	errNegativeKM = errors.New("kilometers cannot be negative")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("repairs")}
}

// AllRepairs returns every repair in the system. Order is unspecified.
func (s *Store) AllRepairs(ctx context.Context) ([]models.Repair, error) {
	proj := options.Find().SetProjection(bson.M{"description": 0})
	return s.find(ctx, bson.M{}, proj)
}

// ListByCar returns the repairs on a car, newest first.
func (s *Store) ListByCar(ctx context.Context, carID primitive.ObjectID) ([]models.Repair, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"car_id": carID}, opts)
}

// ListByOwner returns every repair owned by owner, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Repair, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"owner.id": owner}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Repair, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Repair, 0, 32)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a repair by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Repair, error) {
	var r models.Repair
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a repair on car. The owner is copied from the car. Profit is
// stored exactly as given, even when it does not parse as a number.
func (s *Store) Create(ctx context.Context, car models.Car, r models.Repair) (models.Repair, error) {
	if car.ID.IsZero() {
		return models.Repair{}, errNoCar
	}
	if r.KM < 0 {
		return models.Repair{}, errNegativeKM
	}
	r.ID = primitive.NewObjectID()
	r.CarID = car.ID
	r.Owner = car.Owner
	r.Profit = strings.TrimSpace(r.Profit)
	r.Description = strings.TrimSpace(r.Description)

	now := time.Now().UTC()
	if r.Date.IsZero() {
		r.Date = now
	}
	r.Date = r.Date.UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Repair{}, err
	}
	return r, nil
}
