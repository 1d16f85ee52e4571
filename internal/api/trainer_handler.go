package api

import (
	"errors"
	"net/http"

	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
	requestService service.RequestService
}

func NewTrainerHandler(trainerService service.TrainerService, requestService service.RequestService) *TrainerHandler {
	return &TrainerHandler{
		trainerService: trainerService,
		requestService: requestService,
	}
}

// --- DTOs ---

type AssignTemplateRequest struct {
	ClientID   string `json:"clientId" binding:"required"`
	TemplateID string `json:"templateId" binding:"required"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// --- Handler Methods ---

// GetProspectiveClients godoc
// @Summary List client accounts with request status
// @Description Retrieves every client account together with the status of the trainer's latest access request to each.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ClientOverview "Client roster"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetProspectiveClients(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}

	overviews, err := h.trainerService.GetProspectiveClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}
	c.JSON(http.StatusOK, overviews)
}

// RequestAccess godoc
// @Summary Send an access request to a client
// @Description Creates a pending access request unless one is already pending or access was already granted.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 201 {object} domain.TrainerClientRequest "Request created"
// @Failure 400 {object} gin.H "Invalid client ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Request already pending or access already granted"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/requests [post]
func (h *TrainerHandler) RequestAccess(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}

	request, err := h.requestService.RequestAccess(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrClientNotRole) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrRequestAlreadySent) || errors.Is(err, service.ErrAccessAlreadyGranted) {
			// The existing request rides along so the UI can show its state.
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "request": request})
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to send access request.")
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetTemplates godoc
// @Summary List the workout template catalog
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutTemplate "Templates"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/templates [get]
func (h *TrainerHandler) GetTemplates(c *gin.Context) {
	templates, err := h.trainerService.GetTemplates(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates.")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// AssignTemplate godoc
// @Summary Assign a workout template to a client
// @Description Creates an assignment. The trainer must hold accepted access to the client.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body AssignTemplateRequest true "Client and template"
// @Success 201 {object} domain.AssignedWorkout "Assignment created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Client has not accepted access"
// @Failure 404 {object} gin.H "Template not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/assignments [post]
func (h *TrainerHandler) AssignTemplate(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AssignTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID, err := objectIDFromHexParam(req.ClientID, "clientId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	templateID, err := objectIDFromHexParam(req.TemplateID, "templateId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	assignment, err := h.trainerService.AssignTemplate(c.Request.Context(), trainerID, clientID, templateID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotAccepted) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to assign workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignments godoc
// @Summary List assignments created by the trainer
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.AssignedWorkout "Assignments, newest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/assignments [get]
func (h *TrainerHandler) GetAssignments(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}

	assignments, err := h.trainerService.GetAssignmentsByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// GetClientProgress godoc
// @Summary View a client's progress history
// @Description Retrieves the client's progress entries. Requires accepted access to the client.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.ProgressLog "Progress entries, oldest first"
// @Failure 400 {object} gin.H "Invalid client ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Client has not accepted access"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/progress [get]
func (h *TrainerHandler) GetClientProgress(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}

	logs, err := h.trainerService.GetClientProgress(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotAccepted) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve client progress.")
		}
		return
	}
	c.JSON(http.StatusOK, logs)
}

// SubmitFeedback godoc
// @Summary Attach feedback to a client's progress entry
// @Description Stores trainer feedback on one progress entry. Requires accepted access to the entry's owner.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Progress log ID"
// @Param feedback body FeedbackRequest true "Feedback text"
// @Success 200 {object} domain.ProgressLog "Updated entry"
// @Failure 400 {object} gin.H "Invalid input or feedback too long"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Client has not accepted access"
// @Failure 404 {object} gin.H "Progress entry not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/progress/{logId}/feedback [post]
func (h *TrainerHandler) SubmitFeedback(c *gin.Context) {
	trainerID, ok := requireUserID(c)
	if !ok {
		return
	}
	logID, ok := pathObjectID(c, "logId")
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log, err := h.trainerService.SubmitProgressFeedback(c.Request.Context(), trainerID, logID, req.Feedback)
	if err != nil {
		if errors.Is(err, service.ErrProgressLogNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrClientNotAccepted) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else if errors.Is(err, service.ErrNotesTooLong) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to submit feedback.")
		}
		return
	}
	c.JSON(http.StatusOK, log)
}
