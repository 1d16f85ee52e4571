package repository

import (
	"context"

	"fittrack/fitness-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs a function inside a single storage transaction. Callbacks
// receive a context that must be passed to every repository call that
// should take part in the transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// RequestRepository defines the interface for the trainer-client request
// ledger. Requests are append-only apart from the status transition.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.TrainerClientRequest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerClientRequest, error)
	// LatestForPair returns the most recent request between a trainer and a
	// client, by sentDate descending with insertion ID as the tie-break.
	LatestForPair(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientRequest, error)
	GetPendingByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.TrainerClientRequest, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.RequestStatus) error
}

// TemplateRepository defines the interface for the shared workout
// template catalog.
type TemplateRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetAll(ctx context.Context) ([]domain.WorkoutTemplate, error)
}

// AssignmentRepository defines the interface for trainer-assigned workouts.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.AssignedWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AssignedWorkout, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.AssignedWorkout, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.AssignedWorkout, error)
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for logged workouts and their
// per-set detail rows.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	CreateSets(ctx context.Context, sets []domain.WorkoutSet) error
	GetSetsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error)
	DeleteSetsByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// ProgressRepository defines the interface for progress log entries.
type ProgressRepository interface {
	Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressLog, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error)
	Update(ctx context.Context, log *domain.ProgressLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetTrainerFeedback(ctx context.Context, id primitive.ObjectID, feedback string) error
}

// PhotoRepository defines the interface for progress photo metadata.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressPhoto, error)
}
