package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignedWorkout links a workout template to a specific client, as
// assigned by a trainer. It is created incomplete and flipped to
// completed once the client logs the workout; the record itself is kept
// for audit history either way.
type AssignedWorkout struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	TemplateID    primitive.ObjectID `bson:"templateId" json:"templateId"`
	AssignedDate  time.Time          `bson:"assignedDate" json:"assignedDate"`
	IsCompleted   bool               `bson:"isCompleted" json:"isCompleted"`
	CompletedDate *time.Time         `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
}
