package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindnest/database"
	"mindnest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoBookingRepo(ctx context.Context, db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{coll: db.Collection(database.BookingsCollection), now: time.Now}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "psychologist_id", Value: 1}, {Key: "start_time", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := r.now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

// Transition is a compare-and-set on the state field.
func (r *MongoBookingRepo) Transition(ctx context.Context, id string, from, to models.BookingState, patch BookingPatch) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s not allowed", ErrStateConflict, from, to)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"state":      to,
		"updated_at": r.now().UTC(),
		"last_error": patch.LastError,
	}
	if patch.EventID != "" {
		set["event_id"] = patch.EventID
	}
	if patch.MeetLink != "" {
		set["meet_link"] = patch.MeetLink
	}
	update := bson.M{"$set": set}
	if patch.IncAttempts {
		update["$inc"] = bson.M{"attempts": 1}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "state": from}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: booking %s is not %s", ErrStateConflict, id, from)
	}
	return nil
}

func (r *MongoBookingRepo) List(ctx context.Context, q BookingQuery) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if q.State != "" {
		filter["state"] = q.State
	}
	if q.PsychologistID != "" {
		filter["psychologist_id"] = q.PsychologistID
	}
	if q.PatientID != "" {
		filter["patient_id"] = q.PatientID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) RevenueByState(ctx context.Context) ([]models.RevenueBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"state": bson.M{"$in": models.PaidStates}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"currency": "$currency", "state": "$state"},
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"currency": "$_id.currency",
			"state":    "$_id.state",
			"total":    1,
			"count":    1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "currency", Value: 1}, {Key: "state", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []models.RevenueBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode revenue buckets: %w", err)
	}
	return buckets, nil
}
