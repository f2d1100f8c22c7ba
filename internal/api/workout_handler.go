package api

import (
	"net/http"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type SetRequest struct {
	ExerciseID string   `json:"exerciseId" binding:"required"`
	SetNumber  int      `json:"setNumber" binding:"required,gt=0"`
	Reps       int      `json:"reps" binding:"required,gt=0"`
	WeightKg   *float64 `json:"weightKg" binding:"omitempty,min=0"`
	RPE        *float64 `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes      string   `json:"notes" binding:"max=280"`
	IsPR       bool     `json:"isPr"`
}

type CheckInRequest struct {
	WeightKg       *float64 `json:"weightKg" binding:"omitempty,min=30,max=300"`
	ReadinessScore *int     `json:"readinessScore" binding:"omitempty,min=1,max=10"`
	AppetiteScore  *int     `json:"appetiteScore" binding:"omitempty,min=1,max=10"`
	SorenessScore  *int     `json:"sorenessScore" binding:"omitempty,min=1,max=10"`
	Notes          string   `json:"notes" binding:"max=500"`
	PhotoURL       string   `json:"photoUrl" binding:"omitempty,url"`
}

type LogSessionRequest struct {
	SessionDate         time.Time       `json:"sessionDate" binding:"required"`
	TemplateDayID       *string         `json:"templateDayId"`
	DurationMinutes     *int            `json:"durationMinutes" binding:"omitempty,gt=0"`
	PerceivedDifficulty *int            `json:"perceivedDifficulty" binding:"omitempty,min=1,max=10"`
	Notes               string          `json:"notes" binding:"max=500"`
	Sets                []SetRequest    `json:"sets" binding:"required,min=1,dive"`
	CheckIn             *CheckInRequest `json:"checkIn"`
}

type LogSessionResponse struct {
	Session domain.WorkoutSession   `json:"session"`
	CheckIn *domain.ProgressCheckIn `json:"checkIn"`
}

type LogWeightRequest struct {
	WeightKg   float64    `json:"weightKg" binding:"required,min=30,max=300"`
	RecordedAt *time.Time `json:"recordedAt"`
	Notes      string     `json:"notes" binding:"max=280"`
}

// LogSession godoc
// @Summary Log a workout session with its sets and an optional check-in
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} LogSessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout-sessions [post]
func (h *WorkoutHandler) LogSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req LogSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.LogSessionInput{
		SessionDate:         req.SessionDate,
		DurationMinutes:     req.DurationMinutes,
		PerceivedDifficulty: req.PerceivedDifficulty,
		Notes:               req.Notes,
		Sets:                make([]service.SetInput, 0, len(req.Sets)),
	}
	if req.TemplateDayID != nil {
		dayID, err := primitive.ObjectIDFromHex(*req.TemplateDayID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid template day ID format.")
			return
		}
		input.TemplateDayID = &dayID
	}
	for _, set := range req.Sets {
		exerciseID, err := primitive.ObjectIDFromHex(set.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
			return
		}
		input.Sets = append(input.Sets, service.SetInput{
			ExerciseID: exerciseID,
			SetNumber:  set.SetNumber,
			Reps:       set.Reps,
			WeightKg:   set.WeightKg,
			RPE:        set.RPE,
			Notes:      set.Notes,
			IsPR:       set.IsPR,
		})
	}
	if req.CheckIn != nil {
		input.CheckIn = &service.CheckInInput{
			WeightKg:       req.CheckIn.WeightKg,
			ReadinessScore: req.CheckIn.ReadinessScore,
			AppetiteScore:  req.CheckIn.AppetiteScore,
			SorenessScore:  req.CheckIn.SorenessScore,
			Notes:          req.CheckIn.Notes,
			PhotoURL:       req.CheckIn.PhotoURL,
		}
	}

	session, checkIn, err := h.workoutService.LogSession(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "Failed to log workout session.")
		return
	}
	c.JSON(http.StatusCreated, LogSessionResponse{Session: *session, CheckIn: checkIn})
}

// ListSessions returns the user's sessions, optionally bounded by RFC 3339 from/to.
func (h *WorkoutHandler) ListSessions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	sessions, err := h.workoutService.ListSessions(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err, "Failed to retrieve workout sessions.")
		return
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid '"+key+"' timestamp, expected RFC 3339.")
		return nil, false
	}
	return &t, true
}

// LogWeight records a standalone weigh-in.
func (h *WorkoutHandler) LogWeight(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req LogWeightRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.workoutService.LogWeight(c.Request.Context(), userID, req.WeightKg, req.RecordedAt, req.Notes)
	if err != nil {
		respondError(c, err, "Failed to log weight.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}
