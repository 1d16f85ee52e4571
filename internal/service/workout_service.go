package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound            = errors.New("workout not found")
	ErrAssignmentNotFound         = errors.New("assigned workout not found")
	ErrAssignmentAlreadyCompleted = errors.New("assigned workout has already been completed")
)

// WorkoutInput carries the user-editable fields of a workout record.
type WorkoutInput struct {
	WorkoutStyle    string
	DurationMinutes *int
	TotalSets       *int
	TotalReps       *int
	Weight          *float64
	Notes           string
}

// AssignmentDetails enriches an assignment with its template and the
// assigning trainer's name for the client's assignment list and the
// per-set entry UI.
type AssignmentDetails struct {
	domain.AssignedWorkout
	TrainerName string                  `json:"trainerName,omitempty"`
	Template    *domain.WorkoutTemplate `json:"template,omitempty"`
}

// --- Service Interface ---
type WorkoutService interface {
	// Workout CRUD, all scoped to the owning user
	GetMyWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, []domain.WorkoutSet, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error

	// Assigned workouts
	GetMyAssignments(ctx context.Context, clientID primitive.ObjectID) ([]AssignmentDetails, error)
	CompleteAssignment(ctx context.Context, clientID, assignedID primitive.ObjectID, inputs map[string]string, notes string) (*domain.Workout, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo    repository.WorkoutRepository
	assignmentRepo repository.AssignmentRepository
	templateRepo   repository.TemplateRepository
	userRepo       repository.UserRepository
	tx             repository.TxRunner
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	userRepo repository.UserRepository,
	tx repository.TxRunner,
) WorkoutService {
	return &workoutService{
		workoutRepo:    workoutRepo,
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
		tx:             tx,
	}
}

// === Workout CRUD ===

// GetMyWorkouts retrieves the user's workouts, most recent first.
func (s *workoutService) GetMyWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.workoutRepo.GetByUserID(ctx, userID)
}

// CreateWorkout logs a new workout for the user. The date is always set
// server-side to today.
func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if input.WorkoutStyle == "" {
		return nil, errors.New("workout style is required")
	}

	workout := &domain.Workout{
		UserID:          userID,
		Date:            startOfToday(),
		WorkoutStyle:    input.WorkoutStyle,
		DurationMinutes: input.DurationMinutes,
		TotalSets:       input.TotalSets,
		TotalReps:       input.TotalReps,
		Weight:          input.Weight,
		Notes:           input.Notes,
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// GetWorkout retrieves a single workout and its set rows. A workout
// owned by someone else is reported as not found.
func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, []domain.WorkoutSet, error) {
	workout, err := s.getOwnedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, nil, err
	}

	sets, err := s.workoutRepo.GetSetsByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, nil, err
	}
	return workout, sets, nil
}

// UpdateWorkout modifies an existing workout owned by the user.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input WorkoutInput) (*domain.Workout, error) {
	workout, err := s.getOwnedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if input.WorkoutStyle == "" {
		return nil, errors.New("workout style is required")
	}

	workout.WorkoutStyle = input.WorkoutStyle
	workout.DurationMinutes = input.DurationMinutes
	workout.TotalSets = input.TotalSets
	workout.TotalReps = input.TotalReps
	workout.Weight = input.Weight
	workout.Notes = input.Notes

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout removes a workout and its set rows.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if _, err := s.getOwnedWorkout(ctx, userID, workoutID); err != nil {
		return err
	}

	// Child rows go first so a failure cannot orphan them.
	if err := s.workoutRepo.DeleteSetsByWorkoutID(ctx, workoutID); err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// getOwnedWorkout fetches a workout and verifies ownership.
func (s *workoutService) getOwnedWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	if userID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, errors.New("user ID and workout ID are required")
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// === Assigned Workouts ===

// GetMyAssignments retrieves the client's assignments newest first,
// enriched with template and trainer details.
func (s *workoutService) GetMyAssignments(ctx context.Context, clientID primitive.ObjectID) ([]AssignmentDetails, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	assignments, err := s.assignmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	details := make([]AssignmentDetails, 0, len(assignments))
	for _, assignment := range assignments {
		entry := AssignmentDetails{AssignedWorkout: assignment}
		if template, err := s.templateRepo.GetByID(ctx, assignment.TemplateID); err == nil {
			entry.Template = template
		}
		if trainer, err := s.userRepo.GetByID(ctx, assignment.TrainerID); err == nil {
			entry.TrainerName = trainer.Name
		}
		details = append(details, entry)
	}
	return details, nil
}

// setFieldKeys returns the form field names carrying the logged reps and
// weight for one set of one exercise, e.g. "SetReps_Squat_2".
func setFieldKeys(exerciseName string, setNumber int) (repsKey, weightKey string) {
	repsKey = fmt.Sprintf("SetReps_%s_%d", exerciseName, setNumber)
	weightKey = fmt.Sprintf("SetWeight_%s_%d", exerciseName, setNumber)
	return repsKey, weightKey
}

// expandTemplate turns a template into per-set rows using the submitted
// inputs. Missing or unparsable values degrade to zero rather than
// failing the whole logging operation; exercises with no positive set
// count are skipped.
func expandTemplate(template *domain.WorkoutTemplate, inputs map[string]string) (sets []domain.WorkoutSet, totalSets, totalReps int) {
	for _, ex := range template.Exercises {
		if ex.Sets <= 0 {
			continue
		}
		for i := 1; i <= ex.Sets; i++ {
			repsKey, weightKey := setFieldKeys(ex.ExerciseName, i)

			reps := 0
			if raw, ok := inputs[repsKey]; ok {
				if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
					reps = v
				}
			}
			weight := 0.0
			if raw, ok := inputs[weightKey]; ok {
				if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
					weight = v
				}
			}

			totalSets++
			totalReps += reps
			sets = append(sets, domain.WorkoutSet{
				ExerciseName: ex.ExerciseName,
				SetNumber:    i,
				Reps:         reps,
				Weight:       weight,
			})
		}
	}
	return sets, totalSets, totalReps
}

// CompleteAssignment logs an assigned workout: it expands the template
// into one set row per (exercise, setNumber), creates the parent workout
// with aggregated totals, and marks the assignment completed. The
// workout, its set rows, and the completion flag are persisted in a
// single transaction so none can exist without the others.
func (s *workoutService) CompleteAssignment(ctx context.Context, clientID, assignedID primitive.ObjectID, inputs map[string]string, notes string) (*domain.Workout, error) {
	// 1. Validate inputs
	if clientID == primitive.NilObjectID || assignedID == primitive.NilObjectID {
		return nil, errors.New("client ID and assigned workout ID are required")
	}

	// 2. Fetch the assignment and verify it is the caller's and still open
	assignment, err := s.assignmentRepo.GetByID(ctx, assignedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.ClientID != clientID {
		return nil, ErrAssignmentNotFound
	}
	if assignment.IsCompleted {
		return nil, ErrAssignmentAlreadyCompleted
	}

	// 3. Fetch the template being expanded
	template, err := s.templateRepo.GetByID(ctx, assignment.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	// 4. Expand outside the transaction; pure computation
	sets, totalSets, totalReps := expandTemplate(template, inputs)

	workout := &domain.Workout{
		UserID:       clientID,
		Date:         startOfToday(),
		WorkoutStyle: template.Name,
		TotalSets:    &totalSets,
		TotalReps:    &totalReps,
		Notes:        notes,
	}

	// 5. Persist workout, set rows, and completion flag atomically
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		workoutID, err := s.workoutRepo.Create(txCtx, workout)
		if err != nil {
			return err
		}
		workout.ID = workoutID

		for i := range sets {
			sets[i].WorkoutID = workoutID
		}
		if err := s.workoutRepo.CreateSets(txCtx, sets); err != nil {
			return err
		}

		return s.assignmentRepo.MarkCompleted(txCtx, assignment.ID)
	})
	if err != nil {
		return nil, err
	}

	return workout, nil
}

// startOfToday returns midnight UTC of the current day, the date stamped
// on logged workouts.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
