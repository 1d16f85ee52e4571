package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bounds for progress entry validation, matching the registration forms.
const (
	MinBodyWeight     = 1.0
	MaxBodyWeight     = 1000.0
	MinBodyFatPercent = 1.0
	MaxBodyFatPercent = 100.0
	MaxNotesLength    = 250
)

// ProgressLog is a single body-progress entry for a user: weight,
// optional body fat %, free-text notes, and optional feedback the
// trainer attaches after the fact. Independent of workouts.
type ProgressLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	EntryDate       time.Time          `bson:"entryDate" json:"entryDate"`
	Weight          float64            `bson:"weight" json:"weight"`
	BodyFatPercent  *float64           `bson:"bodyFatPercent,omitempty" json:"bodyFatPercent,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TrainerFeedback string             `bson:"trainerFeedback,omitempty" json:"trainerFeedback,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
