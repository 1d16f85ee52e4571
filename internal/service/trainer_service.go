package service

import (
	"context"
	"errors"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotAccepted = errors.New("client has not accepted this trainer's access request")
	ErrTemplateNotFound  = errors.New("workout template not found")
)

// ClientOverview pairs a prospective client with the status of the
// trainer's latest request to them, for the roster page.
type ClientOverview struct {
	Client        domain.User          `json:"client"`
	LatestStatus  domain.RequestStatus `json:"latestStatus,omitempty"` // empty when never requested
	LatestRequest *primitive.ObjectID  `json:"latestRequestId,omitempty"`
}

// --- Service Interface ---
type TrainerService interface {
	// Client roster
	GetProspectiveClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error)

	// Template catalog and assignment
	GetTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error)
	AssignTemplate(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID) (*domain.AssignedWorkout, error)
	GetAssignmentsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.AssignedWorkout, error)

	// Client progress review
	GetClientProgress(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.ProgressLog, error)
	SubmitProgressFeedback(ctx context.Context, trainerID, logID primitive.ObjectID, feedback string) (*domain.ProgressLog, error)
}

// --- Service Implementation ---

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo       repository.UserRepository
	requestRepo    repository.RequestRepository
	templateRepo   repository.TemplateRepository
	assignmentRepo repository.AssignmentRepository
	progressRepo   repository.ProgressRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	progressRepo repository.ProgressRepository,
) TrainerService {
	return &trainerService{
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		progressRepo:   progressRepo,
	}
}

// hasAcceptedAccess reports whether the latest ledger entry between the
// pair is Accepted. Shared by every trainer-side authorization check.
func hasAcceptedAccess(ctx context.Context, requestRepo repository.RequestRepository, trainerID, clientID primitive.ObjectID) (bool, error) {
	last, err := requestRepo.LatestForPair(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return last.Status == domain.RequestAccepted, nil
}

// === Client Roster ===

// GetProspectiveClients lists every client account together with the
// status of the trainer's most recent request to each, so the roster
// page can offer "request", "pending", or "assigned" affordances.
func (s *trainerService) GetProspectiveClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}

	clients, err := s.userRepo.GetByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	// One history fetch; pick the latest entry per client in memory.
	// The repository returns newest-first, so the first hit per client wins.
	history, err := s.requestRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	latest := make(map[primitive.ObjectID]*domain.TrainerClientRequest, len(history))
	for i := range history {
		req := &history[i]
		if _, seen := latest[req.ClientID]; !seen {
			latest[req.ClientID] = req
		}
	}

	overviews := make([]ClientOverview, 0, len(clients))
	for _, client := range clients {
		client.PasswordHash = ""
		overview := ClientOverview{Client: client}
		if req, ok := latest[client.ID]; ok {
			overview.LatestStatus = req.Status
			id := req.ID
			overview.LatestRequest = &id
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

// === Template Catalog & Assignment ===

// GetTemplates returns the shared workout template catalog.
func (s *trainerService) GetTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	return s.templateRepo.GetAll(ctx)
}

// AssignTemplate creates an assignment pointing a template at a client.
// The trainer must currently hold accepted access to that client.
func (s *trainerService) AssignTemplate(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID) (*domain.AssignedWorkout, error) {
	// 1. Validate inputs
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return nil, errors.New("trainer ID, client ID, and template ID are required")
	}

	// 2. Authorization: latest request between the pair must be Accepted
	accepted, err := hasAcceptedAccess(ctx, s.requestRepo, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrClientNotAccepted
	}

	// 3. Verify the template exists
	if _, err := s.templateRepo.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	// 4. Create the assignment
	assignment := &domain.AssignedWorkout{
		TrainerID:  trainerID,
		ClientID:   clientID,
		TemplateID: templateID,
		// ID, AssignedDate set by the repository
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = assignmentID
	return assignment, nil
}

// GetAssignmentsByTrainer retrieves assignments created by the trainer,
// most recently assigned first.
func (s *trainerService) GetAssignmentsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.AssignedWorkout, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.assignmentRepo.GetByTrainerID(ctx, trainerID)
}

// === Client Progress Review ===

// GetClientProgress retrieves a client's progress history for review.
// Requires accepted access.
func (s *trainerService) GetClientProgress(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.ProgressLog, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}

	accepted, err := hasAcceptedAccess(ctx, s.requestRepo, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrClientNotAccepted
	}

	return s.progressRepo.GetByUserID(ctx, clientID)
}

// SubmitProgressFeedback attaches trainer feedback to a single progress
// entry. The trainer must hold accepted access to the entry's owner.
func (s *trainerService) SubmitProgressFeedback(ctx context.Context, trainerID, logID primitive.ObjectID, feedback string) (*domain.ProgressLog, error) {
	// 1. Validate inputs
	if trainerID == primitive.NilObjectID || logID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and log ID are required")
	}
	if len(feedback) > domain.MaxNotesLength {
		return nil, ErrNotesTooLong
	}

	// 2. Fetch the entry to learn its owner
	log, err := s.progressRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressLogNotFound
		}
		return nil, err
	}

	// 3. Authorization check against the owner
	accepted, err := hasAcceptedAccess(ctx, s.requestRepo, trainerID, log.UserID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrClientNotAccepted
	}

	// 4. Persist the feedback
	if err := s.progressRepo.SetTrainerFeedback(ctx, logID, feedback); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressLogNotFound
		}
		return nil, err
	}

	log.TrainerFeedback = feedback
	return log, nil
}
