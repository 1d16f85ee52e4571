package service

import (
	"context"
	"testing"

	"fittrack/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRequestServiceFixture() (RequestService, *fakeRequestRepo, *fakeUserRepo) {
	requestRepo := newFakeRequestRepo()
	userRepo := newFakeUserRepo()
	return NewRequestService(requestRepo, userRepo), requestRepo, userRepo
}

func TestRequestAccess_CreatesPendingRequest(t *testing.T) {
	svc, requestRepo, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, request.Status)
	assert.Equal(t, trainer.ID, request.TrainerID)
	assert.Equal(t, client.ID, request.ClientID)
	assert.False(t, request.SentDate.IsZero())
	assert.Equal(t, 1, requestRepo.countForPair(trainer.ID, client.ID))
}

func TestRequestAccess_WhilePendingIsIdempotent(t *testing.T) {
	svc, requestRepo, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	first, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)

	second, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)

	assert.ErrorIs(t, err, ErrRequestAlreadySent)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "re-request must surface the existing pending request")
	assert.Equal(t, 1, requestRepo.countForPair(trainer.ID, client.ID), "no duplicate pending row")
}

func TestRequestAccess_AfterAcceptIsRejected(t *testing.T) {
	svc, requestRepo, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), client.ID, request.ID, "accept")
	require.NoError(t, err)

	again, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)

	assert.ErrorIs(t, err, ErrAccessAlreadyGranted)
	require.NotNil(t, again)
	assert.Equal(t, domain.RequestAccepted, again.Status)
	assert.Equal(t, 1, requestRepo.countForPair(trainer.ID, client.ID))
}

func TestRequestAccess_AfterDeclineCreatesNewRequest(t *testing.T) {
	svc, requestRepo, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	first, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), client.ID, first.ID, "decline")
	require.NoError(t, err)

	second, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.RequestPending, second.Status)
	assert.Equal(t, 2, requestRepo.countForPair(trainer.ID, client.ID), "declined history is preserved")

	// The fresh pending request now governs the relationship.
	accepted, err := svc.HasAcceptedAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	assert.False(t, accepted)
}

func TestRequestAccess_TargetValidation(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	otherTrainer := userRepo.add("Tom Trainer", "tom@example.com", domain.RoleTrainer)

	_, err := svc.RequestAccess(context.Background(), trainer.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = svc.RequestAccess(context.Background(), trainer.ID, otherTrainer.ID)
	assert.ErrorIs(t, err, ErrClientNotRole)
}

func TestRespond_AcceptGrantsAccess(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)

	resolved, err := svc.Respond(context.Background(), client.ID, request.ID, "accept")

	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, resolved.Status)

	accepted, err := svc.HasAcceptedAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestRespond_SecondResponseIsConflict(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), client.ID, request.ID, "accept")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), client.ID, request.ID, "decline")
	assert.ErrorIs(t, err, ErrRequestAlreadyHandled)

	// The earlier decision stands.
	accepted, err := svc.HasAcceptedAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestRespond_ForeignRequestLooksMissing(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)
	other := userRepo.add("Olga Other", "olga@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), other.ID, request.ID, "accept")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRespond_InvalidDecision(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	request, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), client.ID, request.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestPendingFor_EnrichesWithTrainerName(t *testing.T) {
	svc, _, userRepo := newRequestServiceFixture()
	trainer := userRepo.add("Tina Trainer", "tina@example.com", domain.RoleTrainer)
	otherTrainer := userRepo.add("Tom Trainer", "tom@example.com", domain.RoleTrainer)
	client := userRepo.add("Carl Client", "carl@example.com", domain.RoleClient)

	_, err := svc.RequestAccess(context.Background(), trainer.ID, client.ID)
	require.NoError(t, err)
	declined, err := svc.RequestAccess(context.Background(), otherTrainer.ID, client.ID)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), client.ID, declined.ID, "decline")
	require.NoError(t, err)

	pending, err := svc.PendingFor(context.Background(), client.ID)

	require.NoError(t, err)
	require.Len(t, pending, 1, "only pending requests are listed")
	assert.Equal(t, trainer.ID, pending[0].TrainerID)
	assert.Equal(t, "Tina Trainer", pending[0].TrainerName)
}
