package api

import (
	"errors"
	"net/http"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"
	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the shared exercise library.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

// CreateExerciseRequest defines the expected JSON for adding a library exercise.
type CreateExerciseRequest struct {
	Name            string `json:"name" binding:"required,max=120"`
	PrimaryMuscle   string `json:"primaryMuscle" binding:"omitempty,max=40"`
	MovementPattern string `json:"movementPattern" binding:"omitempty,max=40"`
	Equipment       string `json:"equipment" binding:"omitempty,oneof=FULL_GYM BARBELL_ONLY DUMBBELLS_ONLY HOME_MINIMAL"`
	Difficulty      string `json:"difficulty" binding:"omitempty,oneof=EASY MODERATE HARD"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	PrimaryMuscle    string    `json:"primaryMuscle"`
	SecondaryMuscles []string  `json:"secondaryMuscles"`
	MovementPattern  string    `json:"movementPattern"`
	Equipment        string    `json:"equipment"`
	Difficulty       string    `json:"difficulty"`
	DefaultSets      int       `json:"defaultSets,omitempty"`
	DefaultReps      string    `json:"defaultReps,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	secondary := ex.SecondaryMuscles
	if secondary == nil {
		secondary = []string{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		Name:             ex.Name,
		PrimaryMuscle:    ex.PrimaryMuscle,
		SecondaryMuscles: secondary,
		MovementPattern:  ex.MovementPattern,
		Equipment:        ex.Equipment,
		Difficulty:       ex.Difficulty,
		DefaultSets:      ex.DefaultSets,
		DefaultReps:      ex.DefaultReps,
		CreatedAt:        ex.CreatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the exercise library
// @Description Returns library exercises sorted by name, optionally filtered.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param primaryMuscle query string false "Primary muscle, e.g. LEGS"
// @Param equipment query string false "Equipment profile, e.g. FULL_GYM"
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := repository.ExerciseFilter{
		PrimaryMuscle: c.Query("primaryMuscle"),
		Equipment:     c.Query("equipment"),
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}

	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise godoc
// @Summary Add an exercise to the library
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), service.CreateExerciseInput{
		Name:            req.Name,
		PrimaryMuscle:   req.PrimaryMuscle,
		MovementPattern: req.MovementPattern,
		Equipment:       req.Equipment,
		Difficulty:      req.Difficulty,
	})
	if err != nil {
		if errors.Is(err, service.ErrExerciseExists) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		respondError(c, err, "Failed to create exercise.")
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}
