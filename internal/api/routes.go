package api

import (
	"net/http"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	requestService service.RequestService,
	trainerService service.TrainerService,
	workoutService service.WorkoutService,
	progressService service.ProgressService,
) {

	authHandler := NewAuthHandler(authService)
	requestHandler := NewRequestHandler(requestService)
	trainerHandler := NewTrainerHandler(trainerService, requestService)
	workoutHandler := NewWorkoutHandler(workoutService)
	progressHandler := NewProgressHandler(progressService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Workout Routes (any authenticated user) ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		// --- Progress Routes (any authenticated user) ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.GetProgress)
			progressGroup.POST("", progressHandler.CreateProgress)
			progressGroup.PUT("/:id", progressHandler.UpdateProgress)
			progressGroup.DELETE("/:id", progressHandler.DeleteProgress)

			progressGroup.POST("/photos/upload-url", progressHandler.RequestPhotoUpload)
			progressGroup.POST("/photos", progressHandler.ConfirmPhotoUpload)
			progressGroup.GET("/photos", progressHandler.GetPhotos)
		}

		// --- Client Specific Routes ---
		clientApiGroup := protected.Group("/client")
		clientApiGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// Access request ledger, client side
			clientApiGroup.GET("/requests", requestHandler.GetPendingRequests)
			clientApiGroup.POST("/requests/:requestId/respond", requestHandler.RespondToRequest)

			// Assigned workouts
			clientApiGroup.GET("/assignments", workoutHandler.GetAssignments)
			clientApiGroup.POST("/assignments/:assignedId/complete", workoutHandler.CompleteAssignment)
		}

		// --- Trainer Specific Routes ---
		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// Client roster and access request ledger, trainer side
			trainerApiGroup.GET("/clients", trainerHandler.GetProspectiveClients)
			trainerApiGroup.POST("/clients/:clientId/requests", trainerHandler.RequestAccess)

			// Template catalog and assignment
			trainerApiGroup.GET("/templates", trainerHandler.GetTemplates)
			trainerApiGroup.POST("/assignments", trainerHandler.AssignTemplate)
			trainerApiGroup.GET("/assignments", trainerHandler.GetAssignments)

			// Client progress review
			trainerApiGroup.GET("/clients/:clientId/progress", trainerHandler.GetClientProgress)
			trainerApiGroup.POST("/progress/:logId/feedback", trainerHandler.SubmitFeedback)
		}
	}
}
