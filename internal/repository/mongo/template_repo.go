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

const templateCollectionName = "workout_templates"

// mongoTemplateRepository implements repository.TemplateRepository
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new template catalog repository backed by MongoDB.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// GetByID retrieves a workout template by its ID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetAll retrieves the full template catalog, sorted by name.
func (r *mongoTemplateRepository) GetAll(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	var templates []domain.WorkoutTemplate
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// defaultTemplates is the starter catalog inserted on first boot so that
// trainers have something to assign before any curation happens.
func defaultTemplates(now time.Time) []interface{} {
	return []interface{}{
		domain.WorkoutTemplate{
			ID:       primitive.NewObjectID(),
			Name:     "Biceps Workout",
			Category: "Biceps",
			Exercises: []domain.TemplateExercise{
				{ExerciseName: "Dumbbell Bicep Curl", Sets: 3, Reps: 10, SuggestedWeight: 25},
				{ExerciseName: "Hammer Curl", Sets: 3, Reps: 12, SuggestedWeight: 20},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		domain.WorkoutTemplate{
			ID:       primitive.NewObjectID(),
			Name:     "Triceps Workout",
			Category: "Triceps",
			Exercises: []domain.TemplateExercise{
				{ExerciseName: "Tricep Cable Pushdown", Sets: 3, Reps: 12, SuggestedWeight: 40},
				{ExerciseName: "Overhead Dumbbell Extension", Sets: 3, Reps: 10, SuggestedWeight: 30},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		domain.WorkoutTemplate{
			ID:       primitive.NewObjectID(),
			Name:     "Leg Day Power",
			Category: "Legs",
			Exercises: []domain.TemplateExercise{
				{ExerciseName: "Squat", Sets: 4, Reps: 8, SuggestedWeight: 135},
				{ExerciseName: "Leg Press", Sets: 3, Reps: 10, SuggestedWeight: 180},
				{ExerciseName: "Romanian Deadlift", Sets: 3, Reps: 10, SuggestedWeight: 95},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		domain.WorkoutTemplate{
			ID:       primitive.NewObjectID(),
			Name:     "Push Day",
			Category: "Push",
			Exercises: []domain.TemplateExercise{
				{ExerciseName: "Bench Press", Sets: 4, Reps: 8, SuggestedWeight: 115},
				{ExerciseName: "Overhead Press", Sets: 3, Reps: 10, SuggestedWeight: 65},
			},
			CreatedAt: now, UpdatedAt: now,
		},
		domain.WorkoutTemplate{
			ID:       primitive.NewObjectID(),
			Name:     "Pull Day",
			Category: "Pull",
			Exercises: []domain.TemplateExercise{
				{ExerciseName: "Deadlift", Sets: 3, Reps: 5, SuggestedWeight: 185},
				{ExerciseName: "Lat Pulldown", Sets: 3, Reps: 10, SuggestedWeight: 90},
				{ExerciseName: "Barbell Row", Sets: 3, Reps: 10, SuggestedWeight: 95},
			},
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

// EnsureDefaultTemplates seeds the template catalog when it is empty.
// Called during startup alongside index creation.
func EnsureDefaultTemplates(ctx context.Context, collection *mongo.Collection) error {
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = collection.InsertMany(ctx, defaultTemplates(time.Now().UTC()))
	return err
}

// EnsureTemplateIndexes creates necessary indexes for the templates collection.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
