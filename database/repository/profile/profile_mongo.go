package profileRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindnest/database"
	"mindnest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProfileRepo implements ProfileRepository using MongoDB.
type MongoProfileRepo struct {
	coll *mongo.Collection
}

// NewMongoProfileRepo creates a ProfileRepository backed by db.
func NewMongoProfileRepo(ctx context.Context, db *mongo.Database) (*MongoProfileRepo, error) {
	repo := &MongoProfileRepo{coll: db.Collection(database.ProfilesCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoProfileRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create profile indexes: %w", err)
	}
	return nil
}

func (r *MongoProfileRepo) findOne(ctx context.Context, filter bson.M, projection bson.M) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var profile models.Profile
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

func (r *MongoProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"id": id}, bson.M{"password_hash": 0})
}

func (r *MongoProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, nil)
}

// GetRole projects only the role field so the guard's lookup stays small.
func (r *MongoProfileRepo) GetRole(ctx context.Context, id string) (models.Role, error) {
	profile, err := r.findOne(ctx, bson.M{"id": id}, bson.M{"role": 1})
	if err != nil {
		return models.RoleNone, err
	}
	return models.ParseRole(profile.Role), nil
}

func (r *MongoProfileRepo) GetAll(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"password_hash": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

func (r *MongoProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailInUse
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}
