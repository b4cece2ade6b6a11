package main

import (
	"clinigoal/backend/internal/api"
	"clinigoal/backend/internal/config"
	"clinigoal/backend/internal/gateway"
	"clinigoal/backend/internal/mail"
	"clinigoal/backend/internal/repository/mongo"
	"clinigoal/backend/internal/service"
	"clinigoal/backend/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("Starting Clinigoal backend...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load config")
	}
	log.Info().Msg("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to MongoDB")
	}
	defer func() {
		log.Info().Msg("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Msg("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureAdminIndexes(ctx, appDB.Collection("admins"))
		mongo.EnsureVideoIndexes(ctx, appDB.Collection("videos"))
		mongo.EnsureNoteIndexes(ctx, appDB.Collection("notes"))
		mongo.EnsureQuizIndexes(ctx, appDB.Collection("quizzes"))
		mongo.EnsurePaymentIndexes(ctx, appDB.Collection("payments"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("user_progress"))
		mongo.EnsureReviewIndexes(ctx, appDB.Collection("reviews"))
		log.Info().Msg("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	staticUploadsDir := ""
	switch cfg.Storage.Provider {
	case "s3":
		fileStorage, err = storage.NewS3Storage(cfg.Storage.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
	default:
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local storage")
		}
		staticUploadsDir = cfg.Storage.LocalDir
	}
	log.Info().Str("provider", cfg.Storage.Provider).Msg("File storage initialized.")

	// --- Outbound Integrations ---
	mailer := mail.NewSendGridMailer(cfg.Mail)
	paymentGateway, err := gateway.NewRazorpayGateway(cfg.Razorpay)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize payment gateway")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	adminRepo := mongo.NewMongoAdminRepository(appDB)
	courseRepo := mongo.NewMongoCourseRepository(appDB)
	videoRepo := mongo.NewMongoVideoRepository(appDB)
	noteRepo := mongo.NewMongoNoteRepository(appDB)
	quizRepo := mongo.NewMongoQuizRepository(appDB)
	submissionRepo := mongo.NewMongoQuizSubmissionRepository(appDB)
	paymentRepo := mongo.NewMongoPaymentRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	reviewRepo := mongo.NewMongoReviewRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, adminRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	resetService := service.NewPasswordResetService(userRepo, adminRepo, mailer)
	courseService := service.NewCourseService(courseRepo)
	mediaService := service.NewMediaService(videoRepo, noteRepo, courseRepo, fileStorage)
	quizService := service.NewQuizService(quizRepo, courseRepo)
	paymentService := service.NewPaymentService(paymentRepo, courseRepo, paymentGateway)
	progressService := service.NewProgressService(progressRepo, submissionRepo, paymentRepo, videoRepo)
	reviewService := service.NewReviewService(reviewRepo, courseRepo)

	// --- Seed Admin Account ---
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		admin, err := authService.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin account")
		}
		log.Info().Str("email", admin.Email).Msg("Admin account ready.")
	} else {
		log.Warn().Msg("No admin credentials configured; admin login unavailable until seeded.")
	}

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		resetService,
		courseService,
		mediaService,
		quizService,
		paymentService,
		progressService,
		reviewService,
		staticUploadsDir,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("address", cfg.Server.Address).Msg("Server starting")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}
