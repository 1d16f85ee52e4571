package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress_logs"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress log repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new progress log entry.
func (r *mongoProgressRepository) Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress log requires userId")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now
	if log.EntryDate.IsZero() {
		log.EntryDate = now
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a progress log entry by its ID.
func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressLog, error) {
	var log domain.ProgressLog
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByUserID retrieves all progress entries for a user in chronological
// order, the order the history table and chart render in.
func (r *mongoProgressRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	var logs []domain.ProgressLog
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "entryDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// Update modifies the user-editable fields of an existing progress entry.
// Trainer feedback is written through SetTrainerFeedback only.
func (r *mongoProgressRepository) Update(ctx context.Context, log *domain.ProgressLog) error {
	if log.ID == primitive.NilObjectID {
		return errors.New("progress log ID is required for update")
	}

	filter := bson.M{"_id": log.ID}
	update := bson.M{
		"$set": bson.M{
			"entryDate":      log.EntryDate,
			"weight":         log.Weight,
			"bodyFatPercent": log.BodyFatPercent,
			"notes":          log.Notes,
			"updatedAt":      time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a progress log entry.
func (r *mongoProgressRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetTrainerFeedback attaches trainer feedback text to an entry.
func (r *mongoProgressRepository) SetTrainerFeedback(ctx context.Context, id primitive.ObjectID, feedback string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"trainerFeedback": feedback,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes for the progress logs collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Per-user history in date order
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "entryDate", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
