package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces. They keep the same
// ordering guarantees as the Mongo implementations so service-level
// assertions about "latest" and "newest first" hold.

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
	order []primitive.ObjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	user.CreatedAt = time.Now().UTC()
	f.users[id] = *user
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (f *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, id := range f.order {
		if u := f.users[id]; u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) add(name, email string, role domain.Role) domain.User {
	user := domain.User{Name: name, Email: email, Role: role}
	_, _ = f.Create(context.Background(), &user)
	return user
}

// --- Requests ---

type fakeRequestRepo struct {
	requests []domain.TrainerClientRequest
}

func newFakeRequestRepo() *fakeRequestRepo { return &fakeRequestRepo{} }

func (f *fakeRequestRepo) Create(_ context.Context, req *domain.TrainerClientRequest) (primitive.ObjectID, error) {
	req.ID = primitive.NewObjectID()
	f.requests = append(f.requests, *req)
	return req.ID, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainerClientRequest, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			copied := f.requests[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// newestFirst returns matching requests sorted by sentDate descending,
// insertion order as the tie-break, mirroring the Mongo sort.
func (f *fakeRequestRepo) newestFirst(match func(r domain.TrainerClientRequest) bool) []domain.TrainerClientRequest {
	type indexed struct {
		req domain.TrainerClientRequest
		pos int
	}
	var hits []indexed
	for i, r := range f.requests {
		if match(r) {
			hits = append(hits, indexed{req: r, pos: i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if !hits[a].req.SentDate.Equal(hits[b].req.SentDate) {
			return hits[a].req.SentDate.After(hits[b].req.SentDate)
		}
		return hits[a].pos > hits[b].pos
	})
	out := make([]domain.TrainerClientRequest, len(hits))
	for i, h := range hits {
		out[i] = h.req
	}
	return out
}

func (f *fakeRequestRepo) LatestForPair(_ context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientRequest, error) {
	hits := f.newestFirst(func(r domain.TrainerClientRequest) bool {
		return r.TrainerID == trainerID && r.ClientID == clientID
	})
	if len(hits) == 0 {
		return nil, repository.ErrNotFound
	}
	return &hits[0], nil
}

func (f *fakeRequestRepo) GetPendingByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.TrainerClientRequest, error) {
	return f.newestFirst(func(r domain.TrainerClientRequest) bool {
		return r.ClientID == clientID && r.Status == domain.RequestPending
	}), nil
}

func (f *fakeRequestRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientRequest, error) {
	return f.newestFirst(func(r domain.TrainerClientRequest) bool {
		return r.TrainerID == trainerID
	}), nil
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.RequestStatus) error {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRequestRepo) countForPair(trainerID, clientID primitive.ObjectID) int {
	n := 0
	for _, r := range f.requests {
		if r.TrainerID == trainerID && r.ClientID == clientID {
			n++
		}
	}
	return n
}

// --- Templates ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]domain.WorkoutTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID]domain.WorkoutTemplate)}
}

func (f *fakeTemplateRepo) add(name string, exercises ...domain.TemplateExercise) domain.WorkoutTemplate {
	t := domain.WorkoutTemplate{ID: primitive.NewObjectID(), Name: name, Exercises: exercises}
	f.templates[t.ID] = t
	return t
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (f *fakeTemplateRepo) GetAll(_ context.Context) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

// --- Assignments ---

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]domain.AssignedWorkout
	order       []primitive.ObjectID

	markCompletedCalls int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]domain.AssignedWorkout)}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *domain.AssignedWorkout) (primitive.ObjectID, error) {
	assignment.ID = primitive.NewObjectID()
	assignment.AssignedDate = time.Now().UTC()
	assignment.IsCompleted = false
	f.assignments[assignment.ID] = *assignment
	f.order = append(f.order, assignment.ID)
	return assignment.ID, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AssignedWorkout, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (f *fakeAssignmentRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.AssignedWorkout, error) {
	var out []domain.AssignedWorkout
	for i := len(f.order) - 1; i >= 0; i-- {
		if a := f.assignments[f.order[i]]; a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.AssignedWorkout, error) {
	var out []domain.AssignedWorkout
	for i := len(f.order) - 1; i >= 0; i-- {
		if a := f.assignments[f.order[i]]; a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) MarkCompleted(_ context.Context, id primitive.ObjectID) error {
	f.markCompletedCalls++
	a, ok := f.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	a.IsCompleted = true
	a.CompletedDate = &now
	f.assignments[id] = a
	return nil
}

// --- Workouts ---

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]domain.Workout
	order    []primitive.ObjectID
	sets     []domain.WorkoutSet

	failCreateSets error // injected to exercise transaction rollback paths
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]domain.Workout)}
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()
	f.workouts[workout.ID] = *workout
	f.order = append(f.order, workout.ID)
	return workout.ID, nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := w
	return &copied, nil
}

func (f *fakeWorkoutRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	var out []domain.Workout
	for i := len(f.order) - 1; i >= 0; i-- {
		if w := f.workouts[f.order[i]]; w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	if _, ok := f.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	f.workouts[workout.ID] = *workout
	return nil
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeWorkoutRepo) CreateSets(_ context.Context, sets []domain.WorkoutSet) error {
	if f.failCreateSets != nil {
		return f.failCreateSets
	}
	for i := range sets {
		sets[i].ID = primitive.NewObjectID()
	}
	f.sets = append(f.sets, sets...)
	return nil
}

func (f *fakeWorkoutRepo) GetSetsByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error) {
	var out []domain.WorkoutSet
	for _, s := range f.sets {
		if s.WorkoutID == workoutID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) DeleteSetsByWorkoutID(_ context.Context, workoutID primitive.ObjectID) error {
	kept := f.sets[:0]
	for _, s := range f.sets {
		if s.WorkoutID != workoutID {
			kept = append(kept, s)
		}
	}
	f.sets = kept
	return nil
}

// --- Progress ---

type fakeProgressRepo struct {
	logs  map[primitive.ObjectID]domain.ProgressLog
	order []primitive.ObjectID
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{logs: make(map[primitive.ObjectID]domain.ProgressLog)}
}

func (f *fakeProgressRepo) Create(_ context.Context, log *domain.ProgressLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	f.logs[log.ID] = *log
	f.order = append(f.order, log.ID)
	return log.ID, nil
}

func (f *fakeProgressRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgressLog, error) {
	l, ok := f.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := l
	return &copied, nil
}

func (f *fakeProgressRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	var out []domain.ProgressLog
	for _, id := range f.order {
		if l := f.logs[id]; l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) Update(_ context.Context, log *domain.ProgressLog) error {
	if _, ok := f.logs[log.ID]; !ok {
		return repository.ErrNotFound
	}
	f.logs[log.ID] = *log
	return nil
}

func (f *fakeProgressRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.logs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.logs, id)
	return nil
}

func (f *fakeProgressRepo) SetTrainerFeedback(_ context.Context, id primitive.ObjectID, feedback string) error {
	l, ok := f.logs[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.TrainerFeedback = feedback
	f.logs[id] = l
	return nil
}

// --- Photos ---

type fakePhotoRepo struct {
	photos []domain.ProgressPhoto
}

func newFakePhotoRepo() *fakePhotoRepo { return &fakePhotoRepo{} }

func (f *fakePhotoRepo) Create(_ context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	photo.ID = primitive.NewObjectID()
	f.photos = append(f.photos, *photo)
	return photo.ID, nil
}

func (f *fakePhotoRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	var out []domain.ProgressPhoto
	for _, p := range f.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- Tx runner ---

// fakeTxRunner just runs the callback; the per-repo failure injection
// above stands in for a real abort.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- File storage ---

type fakeFileStorage struct {
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://upload.example.com/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://download.example.com/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// setInput is a test helper building the "SetReps_X_n"/"SetWeight_X_n"
// input map incrementally.
type setInput map[string]string

func (m setInput) reps(exercise string, set, reps int) setInput {
	m[fmt.Sprintf("SetReps_%s_%d", exercise, set)] = fmt.Sprintf("%d", reps)
	return m
}

func (m setInput) weight(exercise string, set int, weight float64) setInput {
	m[fmt.Sprintf("SetWeight_%s_%d", exercise, set)] = fmt.Sprintf("%g", weight)
	return m
}
