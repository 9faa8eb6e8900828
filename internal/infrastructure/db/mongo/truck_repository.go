package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetfare/booking-api/internal/core/domain"
)

const collectionTrucks = "trucks"

type TruckRepository struct {
	col *mongo.Collection
}

func NewTruckRepository(db *mongo.Database) *TruckRepository {
	return &TruckRepository{col: db.Collection(collectionTrucks)}
}

func (r *TruckRepository) Create(ctx context.Context, t *domain.Truck) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, t)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrTruckExists
	}
	return err
}

func (r *TruckRepository) FindByID(ctx context.Context, id string) (*domain.Truck, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TruckRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Truck, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *TruckRepository) findOne(ctx context.Context, filter bson.M) (*domain.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Truck
	err := r.col.FindOne(ctx, filter).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTruckNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TruckRepository) ListActive(ctx context.Context) ([]*domain.Truck, error) {
	return r.list(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}}))
}

func (r *TruckRepository) List(ctx context.Context, limit int) ([]*domain.Truck, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.list(ctx, bson.M{}, opts)
}

func (r *TruckRepository) list(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Truck
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TruckRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTruckNotFound
	}
	return nil
}

func (r *TruckRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
