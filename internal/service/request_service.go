package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrRequestNotFound       = errors.New("trainer request not found")
	ErrRequestAlreadySent    = errors.New("request already sent and is pending")
	ErrAccessAlreadyGranted  = errors.New("access to this client is already granted")
	ErrRequestAlreadyHandled = errors.New("request has already been handled")
	ErrInvalidDecision       = errors.New("decision must be accept or decline")
)

// PendingRequest is a pending ledger entry enriched with the trainer's
// name for the client's decision UI.
type PendingRequest struct {
	domain.TrainerClientRequest
	TrainerName string `json:"trainerName"`
}

// --- Service Interface ---

// RequestService manages the trainer-client access request ledger.
// States: Pending -> {Accepted, Declined}; Declined -> Pending via a new
// request; Accepted is terminal for the pair.
type RequestService interface {
	RequestAccess(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientRequest, error)
	Respond(ctx context.Context, clientID, requestID primitive.ObjectID, decision string) (*domain.TrainerClientRequest, error)
	PendingFor(ctx context.Context, clientID primitive.ObjectID) ([]PendingRequest, error)
	// HasAcceptedAccess reports whether the trainer currently holds accepted
	// access to the client, i.e. the latest request between them is Accepted.
	HasAcceptedAccess(ctx context.Context, trainerID, clientID primitive.ObjectID) (bool, error)
}

// --- Service Implementation ---

// requestService implements the RequestService interface.
type requestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

// NewRequestService creates a new instance of requestService.
func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// RequestAccess sends (or re-sends) an access request from a trainer to a
// client. The latest request between the pair decides the outcome:
// none or Declined creates a fresh Pending request, Pending is an
// idempotent no-op, Accepted rejects the re-request.
func (s *requestService) RequestAccess(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientRequest, error) {
	// 1. Validate inputs
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}

	// 2. Verify the target exists and is a client
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotRole
	}

	// 3. Look up the most recent request between the pair
	last, err := s.requestRepo.LatestForPair(ctx, trainerID, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if last != nil {
		switch last.Status {
		case domain.RequestPending:
			// Already on the client's desk; keep exactly one pending row.
			return last, ErrRequestAlreadySent
		case domain.RequestAccepted:
			return last, ErrAccessAlreadyGranted
		case domain.RequestDeclined:
			// Re-request allowed; fall through to create a new row.
		}
	}

	// 4. Insert a fresh pending request
	request := &domain.TrainerClientRequest{
		TrainerID: trainerID,
		ClientID:  clientID,
		Status:    domain.RequestPending,
		SentDate:  time.Now().UTC(),
	}
	requestID, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = requestID
	return request, nil
}

// Respond records the client's decision on a pending request. Only the
// addressed client may respond, and only while the request is Pending;
// responding to an already-resolved request is a conflict.
func (s *requestService) Respond(ctx context.Context, clientID, requestID primitive.ObjectID, decision string) (*domain.TrainerClientRequest, error) {
	// 1. Map the decision string to a target status
	var target domain.RequestStatus
	switch strings.ToLower(decision) {
	case "accept":
		target = domain.RequestAccepted
	case "decline":
		target = domain.RequestDeclined
	default:
		return nil, ErrInvalidDecision
	}

	// 2. Fetch the request
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	// 3. A request addressed to someone else is indistinguishable from a
	// missing one as far as this caller is concerned.
	if request.ClientID != clientID {
		return nil, ErrRequestNotFound
	}

	// 4. Transition; only Pending requests may be resolved
	if !request.Resolve(target) {
		return nil, ErrRequestAlreadyHandled
	}

	// 5. Persist the new status
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, request.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// PendingFor lists the pending requests addressed to a client, most
// recent first, with trainer names resolved for display.
func (s *requestService) PendingFor(ctx context.Context, clientID primitive.ObjectID) ([]PendingRequest, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	requests, err := s.requestRepo.GetPendingByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	pending := make([]PendingRequest, 0, len(requests))
	for _, req := range requests {
		entry := PendingRequest{TrainerClientRequest: req}
		trainer, err := s.userRepo.GetByID(ctx, req.TrainerID)
		if err == nil {
			entry.TrainerName = trainer.Name
		}
		pending = append(pending, entry)
	}
	return pending, nil
}

// HasAcceptedAccess reports whether the latest request between the pair
// is Accepted.
func (s *requestService) HasAcceptedAccess(ctx context.Context, trainerID, clientID primitive.ObjectID) (bool, error) {
	last, err := s.requestRepo.LatestForPair(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return last.Status == domain.RequestAccepted, nil
}
