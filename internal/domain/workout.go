package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout represents a single logged workout session belonging to a user.
// Summary totals live on the workout itself; the optional per-set detail
// lives in WorkoutSet documents referencing this workout's ID.
type Workout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Date            time.Time          `bson:"date" json:"date"`
	WorkoutStyle    string             `bson:"workoutStyle" json:"workoutStyle"` // e.g. "Leg Day", "Cardio"
	DurationMinutes *int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	TotalSets       *int               `bson:"totalSets,omitempty" json:"totalSets,omitempty"`
	TotalReps       *int               `bson:"totalReps,omitempty" json:"totalReps,omitempty"`
	Weight          *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // Optional aggregate weight
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutSet is one logged set: the atomic unit of a completed workout.
// Set rows are created in bulk when an assigned workout is completed.
type WorkoutSet struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	SetNumber    int                `bson:"setNumber" json:"setNumber"` // 1-based within the exercise
	Reps         int                `bson:"reps" json:"reps"`
	Weight       float64            `bson:"weight" json:"weight"`
}
