package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestCollectionName = "trainer_client_requests"

// mongoRequestRepository implements repository.RequestRepository
type mongoRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoRequestRepository creates a new request ledger repository backed by MongoDB.
func NewMongoRequestRepository(db *mongo.Database) repository.RequestRepository {
	return &mongoRequestRepository{
		collection: db.Collection(requestCollectionName),
	}
}

// Create inserts a new trainer-client request into the ledger.
func (r *mongoRequestRepository) Create(ctx context.Context, req *domain.TrainerClientRequest) (primitive.ObjectID, error) {
	if req.TrainerID == primitive.NilObjectID || req.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("request requires trainerId and clientId")
	}

	req.ID = primitive.NewObjectID()
	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	if req.SentDate.IsZero() {
		req.SentDate = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted request ID")
	}
	return insertedID, nil
}

// GetByID retrieves a request by its ID.
func (r *mongoRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerClientRequest, error) {
	var req domain.TrainerClientRequest
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// LatestForPair retrieves the most recent request between a trainer and a
// client. Sorting falls back to _id for requests sharing an exact
// sentDate, keeping the "latest" choice deterministic.
func (r *mongoRequestRepository) LatestForPair(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientRequest, error) {
	var req domain.TrainerClientRequest
	filter := bson.M{"trainerId": trainerID, "clientId": clientID}
	findOptions := options.FindOne().SetSort(bson.D{
		{Key: "sentDate", Value: -1},
		{Key: "_id", Value: -1},
	})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// GetPendingByClientID retrieves all pending requests addressed to a
// client, most recent first. Used to render the decision UI.
func (r *mongoRequestRepository) GetPendingByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.TrainerClientRequest, error) {
	var requests []domain.TrainerClientRequest
	filter := bson.M{"clientId": clientID, "status": domain.RequestPending}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "sentDate", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByTrainerID retrieves the full request history sent by a trainer,
// most recent first.
func (r *mongoRequestRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientRequest, error) {
	var requests []domain.TrainerClientRequest
	filter := bson.M{"trainerId": trainerID}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "sentDate", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus sets the status of an existing request.
func (r *mongoRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.RequestStatus) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"status": status}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRequestIndexes creates necessary indexes for the request ledger collection.
func EnsureRequestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Latest-for-pair lookups
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}, {Key: "sentDate", Value: -1}},
			Options: options.Index(),
		},
		{
			// Pending requests for a client's decision UI
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
