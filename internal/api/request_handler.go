package api

import (
	"errors"
	"net/http"

	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves the client's side of the access request ledger.
type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// --- DTOs ---

type RespondRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept decline"`
}

// --- Handler Methods ---

// GetPendingRequests godoc
// @Summary List pending access requests addressed to the client
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PendingRequest "Pending requests, newest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/requests [get]
func (h *RequestHandler) GetPendingRequests(c *gin.Context) {
	clientID, ok := requireUserID(c)
	if !ok {
		return
	}

	pending, err := h.requestService.PendingFor(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve pending requests.")
		return
	}
	c.JSON(http.StatusOK, pending)
}

// RespondToRequest godoc
// @Summary Accept or decline a pending access request
// @Description Resolves a pending request addressed to the authenticated client. Responding to an already-resolved request is a conflict.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request ID"
// @Param decision body RespondRequest true "accept or decline"
// @Success 200 {object} domain.TrainerClientRequest "Resolved request"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Request not found or addressed to another client"
// @Failure 409 {object} gin.H "Request already handled"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/requests/{requestId}/respond [post]
func (h *RequestHandler) RespondToRequest(c *gin.Context) {
	clientID, ok := requireUserID(c)
	if !ok {
		return
	}
	requestID, ok := pathObjectID(c, "requestId")
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	request, err := h.requestService.Respond(c.Request.Context(), clientID, requestID, req.Decision)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrRequestAlreadyHandled) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrInvalidDecision) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to respond to request.")
		}
		return
	}
	c.JSON(http.StatusOK, request)
}
