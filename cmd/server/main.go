package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/fitness-tracker/internal/api"
	"fittrack/fitness-tracker/internal/config"
	"fittrack/fitness-tracker/internal/repository/mongo"
	"fittrack/fitness-tracker/internal/service"
	"fittrack/fitness-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Fitness Tracker API
// @version 1.0
// @description API for trainers and clients: access requests, assigned workouts, workout logging, and body progress tracking.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Fitness Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes & Seed Data ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureRequestIndexes(ctx, appDB.Collection("trainer_client_requests"))
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("assigned_workouts"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"), appDB.Collection("workout_sets"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress_logs"))
		mongo.EnsurePhotoIndexes(ctx, appDB.Collection("progress_photos"))
		if err := mongo.EnsureDefaultTemplates(ctx, appDB.Collection("workout_templates")); err != nil {
			log.Printf("ERROR: Failed to seed default templates: %v", err)
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	requestRepo := mongo.NewMongoRequestRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	photoRepo := mongo.NewMongoPhotoRepository(appDB)
	txRunner := mongo.NewMongoTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	requestService := service.NewRequestService(requestRepo, userRepo)
	trainerService := service.NewTrainerService(userRepo, requestRepo, templateRepo, assignmentRepo, progressRepo)
	workoutService := service.NewWorkoutService(workoutRepo, assignmentRepo, templateRepo, userRepo, txRunner)
	progressService := service.NewProgressService(progressRepo, photoRepo, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, requestService, trainerService, workoutService, progressService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
