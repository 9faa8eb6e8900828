package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetfare/booking-api/internal/core/domain"
)

const collectionReleases = "releases"

type ReleaseRepository struct {
	col *mongo.Collection
}

func NewReleaseRepository(db *mongo.Database) *ReleaseRepository {
	return &ReleaseRepository{col: db.Collection(collectionReleases)}
}

func (r *ReleaseRepository) Create(ctx context.Context, rel *domain.Release) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rel)
	return err
}

// Activate flips the active flag to the given release. The flip is a single
// UpdateMany with a pipeline $set that evaluates is_active per document, so
// concurrent activations always settle at exactly one active release.
func (r *ReleaseRepository) Activate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Existence check first: a missing id is not-found, never a flip that
	// deactivates everything.
	err := r.col.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrReleaseNotFound
		}
		return err
	}

	_, err = r.col.UpdateMany(ctx, bson.M{}, mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"is_active": bson.M{"$eq": bson.A{"$_id", id}},
		}}},
	})
	return err
}

func (r *ReleaseRepository) FindActive(ctx context.Context) (*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rel domain.Release
	err := r.col.FindOne(ctx, bson.M{"is_active": true}).Decode(&rel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReleaseNotFound
		}
		return nil, err
	}
	return &rel, nil
}

func (r *ReleaseRepository) List(ctx context.Context, limit int) ([]*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Release
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
