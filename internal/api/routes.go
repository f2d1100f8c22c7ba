package api

import (
	"net/http"

	"liftbrain/fitness-coach/internal/metrics"
	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles everything the handlers call.
type Services struct {
	Auth     service.AuthService
	Profile  service.ProfileService
	Workout  service.WorkoutService
	Photo    service.PhotoService
	Coach    service.CoachService
	Exercise service.ExerciseService
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	services Services,
	logger *zap.Logger,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profile)
	workoutHandler := NewWorkoutHandler(services.Workout)
	uploadHandler := NewUploadHandler(services.Photo)
	coachHandler := NewCoachHandler(services.Coach)
	exerciseHandler := NewExerciseHandler(services.Exercise)

	router.Use(RequestID(), Logger(logger), RequestMetrics(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", profileHandler.GetMe)
		protected.PUT("/me/profile", profileHandler.UpdateProfile)

		protected.GET("/exercises", exerciseHandler.ListExercises)
		protected.POST("/exercises", exerciseHandler.CreateExercise)

		protected.POST("/workout-sessions", workoutHandler.LogSession)
		protected.GET("/workout-sessions", workoutHandler.ListSessions)
		protected.POST("/metrics/weight", workoutHandler.LogWeight)

		protected.POST("/uploads/progress-photo", uploadHandler.CreateProgressPhotoUpload)

		aiGroup := protected.Group("/ai")
		{
			aiGroup.POST("/program", coachHandler.RunInitialProgram)
			aiGroup.POST("/adjustment", coachHandler.RequestAdjustment)
			aiGroup.POST("/compliance", coachHandler.RunComplianceAnalysis)
			aiGroup.POST("/body-comp", coachHandler.RunBodyCompEvaluation)
			aiGroup.POST("/weekly-plan", coachHandler.GenerateWeeklyPlan)
		}

		planGroup := protected.Group("/weekly-plan")
		{
			planGroup.GET("/current", coachHandler.GetCurrentPlan)
			planGroup.GET("/current/calendar.ics", coachHandler.ExportCalendar)
			planGroup.PATCH("/:planId/apply", coachHandler.ApplyWeeklyPlan)
		}
	}
}
