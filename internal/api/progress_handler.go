package api

import (
	"errors"
	"net/http"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler serves the user's own progress entries and photos.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- DTOs ---

type ProgressEntryRequest struct {
	Weight         float64  `json:"weight" binding:"required"`
	BodyFatPercent *float64 `json:"bodyFatPercent,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

type PhotoUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type PhotoUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"omitempty,min=0"`
}

func (r ProgressEntryRequest) toInput() service.ProgressInput {
	return service.ProgressInput{
		Weight:         r.Weight,
		BodyFatPercent: r.BodyFatPercent,
		Notes:          r.Notes,
	}
}

// mapProgressValidationError translates entry validation failures to 400,
// returning false when the error was not a validation failure.
func mapProgressValidationError(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrWeightOutOfRange) ||
		errors.Is(err, service.ErrBodyFatOutOfRange) ||
		errors.Is(err, service.ErrNotesTooLong) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

// --- Handler Methods ---

// GetProgress godoc
// @Summary List the user's progress entries
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ProgressLog "Entries, oldest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logs, err := h.progressService.GetMyProgress(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve progress entries.")
		return
	}
	if logs == nil {
		logs = []domain.ProgressLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// CreateProgress godoc
// @Summary Record a new progress entry
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body ProgressEntryRequest true "Entry details"
// @Success 201 {object} domain.ProgressLog "Entry created"
// @Failure 400 {object} gin.H "Invalid input or value out of range"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress [post]
func (h *ProgressHandler) CreateProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log, err := h.progressService.CreateEntry(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if !mapProgressValidationError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to create progress entry.")
		}
		return
	}
	c.JSON(http.StatusCreated, log)
}

// UpdateProgress godoc
// @Summary Update a progress entry
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Progress log ID"
// @Param entry body ProgressEntryRequest true "Updated details"
// @Success 200 {object} domain.ProgressLog "Updated entry"
// @Failure 400 {object} gin.H "Invalid input or value out of range"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Entry not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress/{id} [put]
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req ProgressEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log, err := h.progressService.UpdateEntry(c.Request.Context(), userID, logID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProgressLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if !mapProgressValidationError(c, err) {
			abortWithError(c, http.StatusInternalServerError, "Failed to update progress entry.")
		}
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteProgress godoc
// @Summary Delete a progress entry
// @Tags Progress
// @Security BearerAuth
// @Param id path string true "Progress log ID"
// @Success 204 "Entry deleted"
// @Failure 400 {object} gin.H "Invalid entry ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Entry not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress/{id} [delete]
func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	logID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.progressService.DeleteEntry(c.Request.Context(), userID, logID); err != nil {
		if errors.Is(err, service.ErrProgressLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete progress entry.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload godoc
// @Summary Get a presigned URL for uploading a progress photo
// @Description Returns a short-lived PUT URL. The client uploads directly to object storage, then confirms with the returned object key.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body PhotoUploadURLRequest true "File name and content type"
// @Success 200 {object} PhotoUploadURLResponse "Presigned URL and object key"
// @Failure 400 {object} gin.H "Invalid input or non-image content type"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress/photos/upload-url [post]
func (h *ProgressHandler) RequestPhotoUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	uploadURL, objectKey, err := h.progressService.RequestPhotoUpload(c.Request.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPhotoType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, PhotoUploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// ConfirmPhotoUpload godoc
// @Summary Confirm a completed photo upload
// @Description Records the photo metadata after a successful direct upload.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param photo body ConfirmPhotoRequest true "Uploaded object details"
// @Success 201 {object} domain.ProgressPhoto "Photo recorded"
// @Failure 400 {object} gin.H "Invalid input or foreign object key"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress/photos [post]
func (h *ProgressHandler) ConfirmPhotoUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	photo, err := h.progressService.ConfirmPhotoUpload(c.Request.Context(), userID, req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		// Every service failure here stems from the submitted metadata.
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// GetPhotos godoc
// @Summary List the user's progress photos
// @Description Returns photo metadata with fresh presigned download URLs.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PhotoDetails "Photos"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /progress/photos [get]
func (h *ProgressHandler) GetPhotos(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	photos, err := h.progressService.GetMyPhotos(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve photos.")
		return
	}
	c.JSON(http.StatusOK, photos)
}
