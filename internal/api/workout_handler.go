package api

import (
	"errors"
	"net/http"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves logged workouts and the client's assigned workouts.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type WorkoutRequest struct {
	WorkoutStyle    string   `json:"workoutStyle" binding:"required"`
	DurationMinutes *int     `json:"durationMinutes,omitempty" binding:"omitempty,min=0"`
	TotalSets       *int     `json:"totalSets,omitempty" binding:"omitempty,min=0"`
	TotalReps       *int     `json:"totalReps,omitempty" binding:"omitempty,min=0"`
	Weight          *float64 `json:"weight,omitempty" binding:"omitempty,min=0"`
	Notes           string   `json:"notes,omitempty"`
}

// CompleteAssignmentRequest carries the per-set inputs keyed by field
// name, e.g. "SetReps_Squat_1": "10", "SetWeight_Squat_1": "80.5".
type CompleteAssignmentRequest struct {
	Inputs map[string]string `json:"inputs"`
	Notes  string            `json:"notes,omitempty"`
}

// WorkoutDetailResponse pairs a workout with its per-set rows.
type WorkoutDetailResponse struct {
	Workout domain.Workout      `json:"workout"`
	Sets    []domain.WorkoutSet `json:"sets"`
}

func (r WorkoutRequest) toInput() service.WorkoutInput {
	return service.WorkoutInput{
		WorkoutStyle:    r.WorkoutStyle,
		DurationMinutes: r.DurationMinutes,
		TotalSets:       r.TotalSets,
		TotalReps:       r.TotalReps,
		Weight:          r.Weight,
		Notes:           r.Notes,
	}
}

// --- Handler Methods ---

// GetWorkouts godoc
// @Summary List the user's logged workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout "Workouts, newest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.GetMyWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// CreateWorkout godoc
// @Summary Log a new workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout details"
// @Success 201 {object} domain.Workout "Workout created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.toInput())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// GetWorkout godoc
// @Summary Get one workout with its set rows
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutDetailResponse "Workout with sets"
// @Failure 400 {object} gin.H "Invalid workout ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	workout, sets, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout.")
		}
		return
	}
	if sets == nil {
		sets = []domain.WorkoutSet{}
	}
	c.JSON(http.StatusOK, WorkoutDetailResponse{Workout: *workout, Sets: sets})
}

// UpdateWorkout godoc
// @Summary Update a logged workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body WorkoutRequest true "Updated details"
// @Success 200 {object} domain.Workout "Updated workout"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout.")
		}
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a logged workout and its set rows
// @Tags Workouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 204 "Workout deleted"
// @Failure 400 {object} gin.H "Invalid workout ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAssignments godoc
// @Summary List the client's assigned workouts
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AssignmentDetails "Assignments, newest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/assignments [get]
func (h *WorkoutHandler) GetAssignments(c *gin.Context) {
	clientID, ok := requireUserID(c)
	if !ok {
		return
	}

	assignments, err := h.workoutService.GetMyAssignments(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments.")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// CompleteAssignment godoc
// @Summary Log an assigned workout as completed
// @Description Expands the assigned template into per-set rows using the submitted inputs, creates the workout, and marks the assignment completed. Missing inputs default to zero.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignedId path string true "Assigned workout ID"
// @Param results body CompleteAssignmentRequest true "Per-set inputs and optional notes"
// @Success 201 {object} domain.Workout "Logged workout with totals"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Assignment not found or not addressed to this client"
// @Failure 409 {object} gin.H "Assignment already completed"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/assignments/{assignedId}/complete [post]
func (h *WorkoutHandler) CompleteAssignment(c *gin.Context) {
	clientID, ok := requireUserID(c)
	if !ok {
		return
	}
	assignedID, ok := pathObjectID(c, "assignedId")
	if !ok {
		return
	}

	var req CompleteAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CompleteAssignment(c.Request.Context(), clientID, assignedID, req.Inputs, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) || errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrAssignmentAlreadyCompleted) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to complete assignment.")
		}
		return
	}
	c.JSON(http.StatusCreated, workout)
}
