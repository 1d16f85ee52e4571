package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"
	"fittrack/fitness-tracker/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgressLogNotFound = errors.New("progress log not found")
	ErrWeightOutOfRange    = fmt.Errorf("weight must be between %v and %v", domain.MinBodyWeight, domain.MaxBodyWeight)
	ErrBodyFatOutOfRange   = fmt.Errorf("body fat percent must be between %v and %v", domain.MinBodyFatPercent, domain.MaxBodyFatPercent)
	ErrNotesTooLong        = fmt.Errorf("notes cannot exceed %d characters", domain.MaxNotesLength)
	ErrInvalidPhotoType    = errors.New("photo content type must be an image")
)

// ProgressInput carries the user-editable fields of a progress entry.
type ProgressInput struct {
	Weight         float64
	BodyFatPercent *float64
	Notes          string
}

// PhotoDetails pairs stored photo metadata with a short-lived download URL.
type PhotoDetails struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// --- Service Interface ---
type ProgressService interface {
	// Progress log CRUD, all scoped to the owning user
	GetMyProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error)
	CreateEntry(ctx context.Context, userID primitive.ObjectID, input ProgressInput) (*domain.ProgressLog, error)
	UpdateEntry(ctx context.Context, userID, logID primitive.ObjectID, input ProgressInput) (*domain.ProgressLog, error)
	DeleteEntry(ctx context.Context, userID, logID primitive.ObjectID) error

	// Progress photos
	RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (uploadURL, objectKey string, err error)
	ConfirmPhotoUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.ProgressPhoto, error)
	GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoDetails, error)
}

// --- Service Implementation ---

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo repository.ProgressRepository
	photoRepo    repository.PhotoRepository
	fileStorage  storage.FileStorage
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	photoRepo repository.PhotoRepository,
	fileStorage storage.FileStorage,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		photoRepo:    photoRepo,
		fileStorage:  fileStorage,
	}
}

// validateProgressInput enforces the entry bounds shared by create and update.
func validateProgressInput(input ProgressInput) error {
	if input.Weight < domain.MinBodyWeight || input.Weight > domain.MaxBodyWeight {
		return ErrWeightOutOfRange
	}
	if input.BodyFatPercent != nil {
		if *input.BodyFatPercent < domain.MinBodyFatPercent || *input.BodyFatPercent > domain.MaxBodyFatPercent {
			return ErrBodyFatOutOfRange
		}
	}
	if len(input.Notes) > domain.MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// === Progress Log CRUD ===

// GetMyProgress retrieves the user's progress history in chronological
// order, oldest first, as the charting views expect it.
func (s *progressService) GetMyProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.progressRepo.GetByUserID(ctx, userID)
}

// CreateEntry records a new progress entry dated today.
func (s *progressService) CreateEntry(ctx context.Context, userID primitive.ObjectID, input ProgressInput) (*domain.ProgressLog, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if err := validateProgressInput(input); err != nil {
		return nil, err
	}

	log := &domain.ProgressLog{
		UserID:         userID,
		EntryDate:      startOfToday(),
		Weight:         input.Weight,
		BodyFatPercent: input.BodyFatPercent,
		Notes:          input.Notes,
	}
	logID, err := s.progressRepo.Create(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID
	return log, nil
}

// UpdateEntry modifies an entry owned by the user. Trainer feedback on
// the entry is preserved; only the user-editable fields change.
func (s *progressService) UpdateEntry(ctx context.Context, userID, logID primitive.ObjectID, input ProgressInput) (*domain.ProgressLog, error) {
	log, err := s.getOwnedEntry(ctx, userID, logID)
	if err != nil {
		return nil, err
	}
	if err := validateProgressInput(input); err != nil {
		return nil, err
	}

	log.Weight = input.Weight
	log.BodyFatPercent = input.BodyFatPercent
	log.Notes = input.Notes

	if err := s.progressRepo.Update(ctx, log); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressLogNotFound
		}
		return nil, err
	}
	return log, nil
}

// DeleteEntry removes an entry owned by the user.
func (s *progressService) DeleteEntry(ctx context.Context, userID, logID primitive.ObjectID) error {
	if _, err := s.getOwnedEntry(ctx, userID, logID); err != nil {
		return err
	}
	if err := s.progressRepo.Delete(ctx, logID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressLogNotFound
		}
		return err
	}
	return nil
}

// getOwnedEntry fetches a progress entry and verifies ownership. A
// foreign entry is reported as not found.
func (s *progressService) getOwnedEntry(ctx context.Context, userID, logID primitive.ObjectID) (*domain.ProgressLog, error) {
	if userID == primitive.NilObjectID || logID == primitive.NilObjectID {
		return nil, errors.New("user ID and log ID are required")
	}

	log, err := s.progressRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressLogNotFound
		}
		return nil, err
	}
	if log.UserID != userID {
		return nil, ErrProgressLogNotFound
	}
	return log, nil
}

// === Progress Photos ===

// RequestPhotoUpload generates a presigned PUT URL for the client to
// upload a photo directly to object storage. The returned object key
// must be echoed back in the confirmation call.
func (s *progressService) RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	// 1. Validate inputs
	if userID == primitive.NilObjectID {
		return "", "", errors.New("user ID is required")
	}
	if fileName == "" || contentType == "" {
		return "", "", errors.New("file name and content type are required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrInvalidPhotoType
	}

	// 2. Generate a unique object key, preserving the file extension
	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("progress-photos/%s/%s%s", userID.Hex(), uuid.NewString(), ext)

	// 3. Generate the presigned URL
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return uploadURL, objectKey, nil
}

// ConfirmPhotoUpload records photo metadata after the client reports a
// successful direct upload. The key prefix is checked so a user cannot
// register an object belonging to someone else.
func (s *progressService) ConfirmPhotoUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.ProgressPhoto, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if objectKey == "" || fileName == "" {
		return nil, errors.New("object key and file name are required")
	}
	expectedPrefix := fmt.Sprintf("progress-photos/%s/", userID.Hex())
	if !strings.HasPrefix(objectKey, expectedPrefix) {
		return nil, errors.New("object key does not belong to this user")
	}

	photo := &domain.ProgressPhoto{
		UserID:      userID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}
	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID
	return photo, nil
}

// GetMyPhotos lists the user's photos with fresh presigned download
// URLs. A URL that fails to generate leaves that entry without one
// rather than failing the whole listing.
func (s *progressService) GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoDetails, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	photos, err := s.photoRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]PhotoDetails, 0, len(photos))
	for _, photo := range photos {
		entry := PhotoDetails{ProgressPhoto: photo}
		if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.S3ObjectKey, storage.DefaultPresignedURLExpiry); err == nil {
			entry.DownloadURL = url
		}
		details = append(details, entry)
	}
	return details, nil
}
