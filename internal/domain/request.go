package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus type for the trainer-client request lifecycle
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// TrainerClientRequest is a trainer's request for access to a client's
// workouts and progress. Every request between a pair is kept as its own
// document (history preserved); only the most recent one governs the
// current relationship.
type TrainerClientRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Status    RequestStatus      `bson:"status" json:"status"`
	SentDate  time.Time          `bson:"sentDate" json:"sentDate"`
}

// IsResolved reports whether the request has already been answered.
func (r *TrainerClientRequest) IsResolved() bool {
	return r.Status != RequestPending
}

// Resolve transitions a pending request to accepted or declined.
// Only Pending -> {Accepted, Declined} is a legal transition.
func (r *TrainerClientRequest) Resolve(decision RequestStatus) bool {
	if r.Status != RequestPending {
		return false
	}
	if decision != RequestAccepted && decision != RequestDeclined {
		return false
	}
	r.Status = decision
	return true
}
