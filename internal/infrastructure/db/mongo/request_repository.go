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

const collectionRequests = "truck_requests"

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

// Create inserts a new request document.
func (r *RequestRepository) Create(ctx context.Context, req *domain.TruckRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.TruckRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.TruckRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// AcceptPending is the single atomic conditional write guarding the accept
// race: the status equality precondition and the mutation are one UpdateOne.
// When two trucks race on a blanket request, the loser's update matches zero
// documents and surfaces as ErrRequestNotAvailable.
func (r *RequestRepository) AcceptPending(ctx context.Context, requestID, truckID string) error {
	return r.transitionPending(ctx, requestID, bson.M{
		"status":            domain.StatusAccepted,
		"accepted_truck_id": truckID,
	})
}

// CancelPending shares the accept CAS so a concurrent accept cannot be
// silently overwritten by a cancellation.
func (r *RequestRepository) CancelPending(ctx context.Context, requestID string) error {
	return r.transitionPending(ctx, requestID, bson.M{
		"status": domain.StatusCancelled,
	})
}

func (r *RequestRepository) transitionPending(ctx context.Context, requestID string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": domain.StatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a lost race from an unknown id.
		if err := r.col.FindOne(ctx, bson.M{"_id": requestID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrRequestNotFound
			}
			return err
		}
		return domain.ErrRequestNotAvailable
	}
	return nil
}

// MarkIgnored records a per-truck decline without touching status.
func (r *RequestRepository) MarkIgnored(ctx context.Context, requestID, truckID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": requestID},
		bson.M{"$addToSet": bson.M{"ignored_by": truckID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// ListInbox returns pending requests the truck may act on, soonest first.
// Blanket requests are included only while the truck is active, and requests
// the truck already ignored are excluded.
func (r *RequestRepository) ListInbox(ctx context.Context, truckID string, includeBlanket bool) ([]*domain.TruckRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	eligible := []bson.M{{"requested_truck_id": truckID}}
	if includeBlanket {
		eligible = append(eligible, bson.M{"blanket_request": true})
	}

	filter := bson.M{
		"status":     domain.StatusPending,
		"$or":        eligible,
		"ignored_by": bson.M{"$ne": truckID},
	}

	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *RequestRepository) ListByBusiness(ctx context.Context, businessID string) ([]*domain.TruckRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"business_id": businessID}
	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// ListAcceptedBetween returns accepted requests starting in [start, end).
func (r *RequestRepository) ListAcceptedBetween(ctx context.Context, start, end time.Time) ([]*domain.TruckRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":     domain.StatusAccepted,
		"start_time": bson.M{"$gte": start, "$lt": end},
	}
	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.TruckRequest, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.TruckRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the indexes backing the inbox, business, and
// schedule queries.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "requested_truck_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
