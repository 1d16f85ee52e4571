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

const (
	workoutCollectionName    = "workouts"
	workoutSetCollectionName = "workout_sets"
)

// mongoWorkoutRepository implements repository.WorkoutRepository over the
// workouts collection and its workout_sets child collection.
type mongoWorkoutRepository struct {
	workouts *mongo.Collection
	sets     *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		workouts: db.Collection(workoutCollectionName),
		sets:     db.Collection(workoutSetCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.WorkoutStyle == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and workoutStyle")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}

	result, err := r.workouts.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}

	err := r.workouts.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByUserID retrieves all workouts for a user, most recent date first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.workouts.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update modifies the user-editable fields of an existing workout.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	filter := bson.M{"_id": workout.ID}
	update := bson.M{
		"$set": bson.M{
			"workoutStyle":    workout.WorkoutStyle,
			"durationMinutes": workout.DurationMinutes,
			"totalSets":       workout.TotalSets,
			"totalReps":       workout.TotalReps,
			"weight":          workout.Weight,
			"notes":           workout.Notes,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.workouts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout document. Set rows are removed separately via
// DeleteSetsByWorkoutID so the service can order the two operations.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.workouts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateSets bulk-inserts the per-set rows of a completed workout.
func (r *mongoWorkoutRepository) CreateSets(ctx context.Context, sets []domain.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}

	docs := make([]interface{}, len(sets))
	for i := range sets {
		if sets[i].WorkoutID == primitive.NilObjectID {
			return errors.New("workout set requires workoutId")
		}
		sets[i].ID = primitive.NewObjectID()
		docs[i] = sets[i]
	}

	_, err := r.sets.InsertMany(ctx, docs)
	return err
}

// GetSetsByWorkoutID retrieves all set rows for a workout, in exercise
// insertion order then set number.
func (r *mongoWorkoutRepository) GetSetsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error) {
	var sets []domain.WorkoutSet
	filter := bson.M{"workoutId": workoutID}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "_id", Value: 1},
		{Key: "setNumber", Value: 1},
	})

	cursor, err := r.sets.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// DeleteSetsByWorkoutID removes all set rows belonging to a workout.
func (r *mongoWorkoutRepository) DeleteSetsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.sets.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts and
// workout_sets collections.
func EnsureWorkoutIndexes(ctx context.Context, workouts, sets *mongo.Collection) {
	workoutIndexes := []mongo.IndexModel{
		{
			// User's workout list, newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = workouts.Indexes().CreateMany(ctx, workoutIndexes)

	setIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = sets.Indexes().CreateMany(ctx, setIndexes)
}
