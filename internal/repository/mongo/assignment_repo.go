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

const assignmentCollectionName = "assigned_workouts"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new assigned-workout repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assigned workout.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.AssignedWorkout) (primitive.ObjectID, error) {
	if assignment.TrainerID == primitive.NilObjectID ||
		assignment.ClientID == primitive.NilObjectID ||
		assignment.TemplateID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires trainerId, clientId, and templateId")
	}

	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedDate.IsZero() {
		assignment.AssignedDate = time.Now().UTC()
	}
	assignment.IsCompleted = false
	assignment.CompletedDate = nil

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assigned workout by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AssignedWorkout, error) {
	var assignment domain.AssignedWorkout
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClientID retrieves all assignments addressed to a client, most
// recently assigned first.
func (r *mongoAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.AssignedWorkout, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetByTrainerID retrieves all assignments created by a trainer, most
// recently assigned first.
func (r *mongoAssignmentRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.AssignedWorkout, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.AssignedWorkout, error) {
	var assignments []domain.AssignedWorkout
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// MarkCompleted flips the completion flag and stamps the completion date.
func (r *mongoAssignmentRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"isCompleted":   true,
			"completedDate": time.Now().UTC(),
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

// EnsureAssignmentIndexes creates necessary indexes for the assigned workouts collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Client's assignment list, newest first
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "assignedDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Filtering open vs completed assignments on dashboards
			Keys:    bson.D{{Key: "isCompleted", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
