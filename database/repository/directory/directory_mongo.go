package directoryRepo

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

// MongoDirectoryRepo implements DirectoryRepository using MongoDB.
type MongoDirectoryRepo struct {
	coll *mongo.Collection
}

func NewMongoDirectoryRepo(ctx context.Context, db *mongo.Database) (*MongoDirectoryRepo, error) {
	repo := &MongoDirectoryRepo{coll: db.Collection(database.PsychologistsCollection)}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoDirectoryRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specializations", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create directory indexes: %w", err)
	}
	return nil
}

func (r *MongoDirectoryRepo) Search(ctx context.Context, term string, filter models.DirectoryFilter) ([]models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, BuildSearchFilter(term, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("directory query failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Psychologist{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode psychologists: %w", err)
	}
	return results, nil
}

func (r *MongoDirectoryRepo) GetByID(ctx context.Context, id string) (*models.Psychologist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Psychologist
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch psychologist %s: %w", id, err)
	}
	return &p, nil
}
