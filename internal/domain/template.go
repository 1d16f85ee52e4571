package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateExercise is a single exercise inside a workout template, with
// the target sets/reps and a suggested working weight.
type TemplateExercise struct {
	ExerciseName    string  `bson:"exerciseName" json:"exerciseName"`
	Sets            int     `bson:"sets" json:"sets"`
	Reps            int     `bson:"reps" json:"reps"`
	SuggestedWeight float64 `bson:"suggestedWeight" json:"suggestedWeight"`
}

// WorkoutTemplate is a reusable, trainer-curated exercise plan from the
// shared catalog (e.g. "Leg Day"). Templates are global: they are not
// owned by a single user and are read-mostly. The exercises are embedded
// in document order, which is the order they are expanded in when a
// client logs an assigned workout.
type WorkoutTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"` // e.g. "Legs", "Cardio"
	Exercises []TemplateExercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalSets sums the set counts across all exercises. Exercises with a
// non-positive set count contribute nothing.
func (t *WorkoutTemplate) TotalSets() int {
	total := 0
	for _, ex := range t.Exercises {
		if ex.Sets > 0 {
			total += ex.Sets
		}
	}
	return total
}
