package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liftbrain/fitness-coach/internal/ai"
	"liftbrain/fitness-coach/internal/api"
	"liftbrain/fitness-coach/internal/config"
	"liftbrain/fitness-coach/internal/logger"
	"liftbrain/fitness-coach/internal/metrics"
	"liftbrain/fitness-coach/internal/repository/mongo"
	"liftbrain/fitness-coach/internal/service"
	"liftbrain/fitness-coach/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title LiftBrain Coach API
// @version 1.0
// @description Workout logging, progress check-ins and AI coaching.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting LiftBrain server", zap.String("address", cfg.Server.Address))

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is not configured")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		log.Fatal("could not ensure indexes", zap.Error(err))
	}
	cancelIndex()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("liftbrain", "server", registry)

	// --- External Clients ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3, log)
	if err != nil {
		log.Fatal("failed to initialize S3 storage", zap.Error(err))
	}
	completer := ai.NewInstrumentedCompleter(ai.NewClient(cfg.AI, log), metricsManager)

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	sessionRepo := mongo.NewMongoWorkoutSessionRepository(appDB)
	checkInRepo := mongo.NewMongoCheckInRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	recommendationRepo := mongo.NewMongoRecommendationRepository(appDB)
	weeklyPlanRepo := mongo.NewMongoWeeklyPlanRepository(appDB)
	photoRepo := mongo.NewMongoProgressPhotoRepository(appDB)
	tx := mongo.NewTransactor(dbClient)

	// --- Services ---
	exerciseService := service.NewExerciseService(exerciseRepo, log)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := exerciseService.SeedLibrary(seedCtx); err != nil {
		log.Warn("exercise library seed incomplete", zap.Error(err))
	}
	cancelSeed()

	services := api.Services{
		Exercise: exerciseService,
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Profile:  service.NewProfileService(userRepo),
		Workout:  service.NewWorkoutService(sessionRepo, checkInRepo, exerciseRepo, templateRepo, tx, log),
		Photo:    service.NewPhotoService(photoRepo, fileStorage, log),
		Coach: service.NewCoachService(service.CoachRepositories{
			Users:           userRepo,
			Sessions:        sessionRepo,
			CheckIns:        checkInRepo,
			Exercises:       exerciseRepo,
			Templates:       templateRepo,
			Recommendations: recommendationRepo,
			WeeklyPlans:     weeklyPlanRepo,
		}, tx, completer, service.CoachModels{
			Program:    cfg.AI.DefaultModel,
			Adjustment: cfg.AI.DefaultModel,
			Compliance: cfg.AI.ComplianceModel,
			BodyComp:   cfg.AI.BodyCompModel,
			WeeklyPlan: cfg.AI.WeeklyPlanModel,
		}, log),
	}

	// --- HTTP ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, cfg.JWT.Secret, services, log, metricsManager, registry)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
