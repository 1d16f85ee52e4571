package service

import (
	"context"
	"errors"
	"testing"

	"fittrack/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	svc            WorkoutService
	workoutRepo    *fakeWorkoutRepo
	assignmentRepo *fakeAssignmentRepo
	templateRepo   *fakeTemplateRepo
	userRepo       *fakeUserRepo
	tx             *fakeTxRunner
}

func newWorkoutFixture() *workoutFixture {
	f := &workoutFixture{
		workoutRepo:    newFakeWorkoutRepo(),
		assignmentRepo: newFakeAssignmentRepo(),
		templateRepo:   newFakeTemplateRepo(),
		userRepo:       newFakeUserRepo(),
		tx:             &fakeTxRunner{},
	}
	f.svc = NewWorkoutService(f.workoutRepo, f.assignmentRepo, f.templateRepo, f.userRepo, f.tx)
	return f
}

// assign creates an open assignment of the given template to the client.
func (f *workoutFixture) assign(trainerID, clientID primitive.ObjectID, template domain.WorkoutTemplate) domain.AssignedWorkout {
	assignment := domain.AssignedWorkout{TrainerID: trainerID, ClientID: clientID, TemplateID: template.ID}
	_, _ = f.assignmentRepo.Create(context.Background(), &assignment)
	return assignment
}

func legDayTemplate(f *workoutFixture) domain.WorkoutTemplate {
	return f.templateRepo.add("Leg Day",
		domain.TemplateExercise{ExerciseName: "Squat", Sets: 3, Reps: 10, SuggestedWeight: 80},
		domain.TemplateExercise{ExerciseName: "Curl", Sets: 2, Reps: 12, SuggestedWeight: 15},
	)
}

func TestCompleteAssignment_ExpandsEverySet(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	template := legDayTemplate(f)
	assignment := f.assign(trainer.ID, client.ID, template)

	inputs := setInput{}.
		reps("Squat", 1, 10).weight("Squat", 1, 80).
		reps("Squat", 2, 8).weight("Squat", 2, 80).
		reps("Squat", 3, 6).weight("Squat", 3, 85).
		reps("Curl", 1, 12).weight("Curl", 1, 15).
		reps("Curl", 2, 10).weight("Curl", 2, 15)

	workout, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, inputs, "felt strong")

	require.NoError(t, err)
	assert.Equal(t, "Leg Day", workout.WorkoutStyle)
	assert.Equal(t, client.ID, workout.UserID)
	assert.Equal(t, "felt strong", workout.Notes)
	require.NotNil(t, workout.TotalSets)
	require.NotNil(t, workout.TotalReps)
	assert.Equal(t, 5, *workout.TotalSets)
	assert.Equal(t, 46, *workout.TotalReps)

	sets, err := f.workoutRepo.GetSetsByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, sets, 5, "one row per (exercise, set)")
	assert.Equal(t, "Squat", sets[0].ExerciseName)
	assert.Equal(t, 1, sets[0].SetNumber)
	assert.Equal(t, 10, sets[0].Reps)
	assert.Equal(t, 80.0, sets[0].Weight)
	assert.Equal(t, "Curl", sets[4].ExerciseName)
	assert.Equal(t, 2, sets[4].SetNumber)

	updated, err := f.assignmentRepo.GetByID(context.Background(), assignment.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.NotNil(t, updated.CompletedDate)
	assert.Equal(t, 1, f.tx.calls, "persistence runs inside one transaction")
}

func TestCompleteAssignment_EmptyInputDefaultsToZero(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	assignment := f.assign(trainer.ID, client.ID, legDayTemplate(f))

	workout, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")

	require.NoError(t, err)
	assert.Equal(t, 5, *workout.TotalSets, "full row skeleton even with no input")
	assert.Equal(t, 0, *workout.TotalReps)

	sets, err := f.workoutRepo.GetSetsByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, sets, 5)
	for _, s := range sets {
		assert.Zero(t, s.Reps)
		assert.Zero(t, s.Weight)
	}
}

func TestCompleteAssignment_PartialAndMalformedInput(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	template := f.templateRepo.add("Squat Day",
		domain.TemplateExercise{ExerciseName: "Squat", Sets: 3, Reps: 10},
	)
	assignment := f.assign(trainer.ID, client.ID, template)

	inputs := setInput{}.reps("Squat", 1, 10).reps("Squat", 2, 8)
	inputs["SetWeight_Squat_1"] = "not-a-number" // parses to zero, not an error

	workout, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, inputs, "")

	require.NoError(t, err)
	assert.Equal(t, 3, *workout.TotalSets)
	assert.Equal(t, 18, *workout.TotalReps)

	sets, err := f.workoutRepo.GetSetsByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Zero(t, sets[0].Weight)
	assert.Zero(t, sets[2].Reps, "missing third set logged as zero")
}

func TestCompleteAssignment_SkipsNonPositiveSetCounts(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	template := f.templateRepo.add("Mixed",
		domain.TemplateExercise{ExerciseName: "Stretch", Sets: 0, Reps: 0},
		domain.TemplateExercise{ExerciseName: "Plank", Sets: -1, Reps: 0},
		domain.TemplateExercise{ExerciseName: "Squat", Sets: 2, Reps: 10},
	)
	assignment := f.assign(trainer.ID, client.ID, template)

	workout, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")

	require.NoError(t, err)
	assert.Equal(t, 2, *workout.TotalSets)

	sets, err := f.workoutRepo.GetSetsByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	for _, s := range sets {
		assert.Equal(t, "Squat", s.ExerciseName)
	}
}

func TestCompleteAssignment_AlreadyCompletedIsConflict(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	assignment := f.assign(trainer.ID, client.ID, legDayTemplate(f))

	_, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")
	require.NoError(t, err)

	workoutsBefore, _ := f.workoutRepo.GetByUserID(context.Background(), client.ID)

	_, err = f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")
	assert.ErrorIs(t, err, ErrAssignmentAlreadyCompleted)

	workoutsAfter, _ := f.workoutRepo.GetByUserID(context.Background(), client.ID)
	assert.Equal(t, len(workoutsBefore), len(workoutsAfter), "no duplicate workout logged")
}

func TestCompleteAssignment_ForeignAssignmentLooksMissing(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	other := f.userRepo.add("Olga", "olga@example.com", domain.RoleClient)
	assignment := f.assign(trainer.ID, client.ID, legDayTemplate(f))

	_, err := f.svc.CompleteAssignment(context.Background(), other.ID, assignment.ID, nil, "")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)

	_, err = f.svc.CompleteAssignment(context.Background(), client.ID, primitive.NewObjectID(), nil, "")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestCompleteAssignment_SetFailureLeavesAssignmentOpen(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	assignment := f.assign(trainer.ID, client.ID, legDayTemplate(f))

	f.workoutRepo.failCreateSets = errors.New("write failed")

	_, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")

	require.Error(t, err)
	assert.Zero(t, f.assignmentRepo.markCompletedCalls, "completion is never marked after a failed write")

	current, err := f.assignmentRepo.GetByID(context.Background(), assignment.ID)
	require.NoError(t, err)
	assert.False(t, current.IsCompleted)
}

func TestWorkoutCRUD_OwnershipScoped(t *testing.T) {
	f := newWorkoutFixture()
	owner := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	intruder := f.userRepo.add("Olga", "olga@example.com", domain.RoleClient)

	created, err := f.svc.CreateWorkout(context.Background(), owner.ID, WorkoutInput{WorkoutStyle: "Cardio", Notes: "5k run"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.UserID)
	assert.False(t, created.Date.IsZero())

	// Reads, updates, and deletes by anyone else look like a missing workout.
	_, _, err = f.svc.GetWorkout(context.Background(), intruder.ID, created.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	_, err = f.svc.UpdateWorkout(context.Background(), intruder.ID, created.ID, WorkoutInput{WorkoutStyle: "Hijack"})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.ErrorIs(t, f.svc.DeleteWorkout(context.Background(), intruder.ID, created.ID), ErrWorkoutNotFound)

	updated, err := f.svc.UpdateWorkout(context.Background(), owner.ID, created.ID, WorkoutInput{WorkoutStyle: "Intervals", Notes: "hill repeats"})
	require.NoError(t, err)
	assert.Equal(t, "Intervals", updated.WorkoutStyle)

	require.NoError(t, f.svc.DeleteWorkout(context.Background(), owner.ID, created.ID))
	_, _, err = f.svc.GetWorkout(context.Background(), owner.ID, created.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestDeleteWorkout_CascadesSetRows(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	assignment := f.assign(trainer.ID, client.ID, legDayTemplate(f))

	workout, err := f.svc.CompleteAssignment(context.Background(), client.ID, assignment.ID, nil, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteWorkout(context.Background(), client.ID, workout.ID))

	sets, err := f.workoutRepo.GetSetsByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestGetMyAssignments_EnrichedNewestFirst(t *testing.T) {
	f := newWorkoutFixture()
	trainer := f.userRepo.add("Tina", "tina@example.com", domain.RoleTrainer)
	client := f.userRepo.add("Carl", "carl@example.com", domain.RoleClient)
	legDay := legDayTemplate(f)
	pushDay := f.templateRepo.add("Push Day",
		domain.TemplateExercise{ExerciseName: "Bench Press", Sets: 3, Reps: 8},
	)
	f.assign(trainer.ID, client.ID, legDay)
	f.assign(trainer.ID, client.ID, pushDay)

	details, err := f.svc.GetMyAssignments(context.Background(), client.ID)

	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Push Day", details[0].Template.Name)
	assert.Equal(t, "Leg Day", details[1].Template.Name)
	assert.Equal(t, "Tina", details[0].TrainerName)
}
