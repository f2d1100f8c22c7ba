package api

import (
	"net/http"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type GoalRequest struct {
	Type         string     `json:"type" binding:"required,max=40"`
	TargetMetric string     `json:"targetMetric" binding:"required,max=120"`
	TargetValue  *float64   `json:"targetValue" binding:"omitempty,min=0"`
	TargetDate   *time.Time `json:"targetDate"`
}

type ScheduleRequest struct {
	WorkoutsPerWeek   *int `json:"workoutsPerWeek" binding:"omitempty,min=1,max=7"`
	MinutesPerSession *int `json:"minutesPerSession" binding:"omitempty,min=15,max=240"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	Name             *string           `json:"name" binding:"omitempty,min=1,max=120"`
	GoalFocus        *domain.GoalFocus `json:"goalFocus" binding:"omitempty,oneof=HYPERTROPHY STRENGTH FAT_LOSS RECOMP POWER ENDURANCE"`
	ExperienceLevel  *string           `json:"experienceLevel" binding:"omitempty,max=40"`
	EquipmentProfile *string           `json:"equipmentProfile" binding:"omitempty,max=80"`
	Age              *int              `json:"age" binding:"omitempty,min=13,max=100"`
	Sex              *string           `json:"sex" binding:"omitempty,max=20"`
	BodyweightKg     *float64          `json:"bodyweightKg" binding:"omitempty,min=30,max=300"`
	Schedule         *ScheduleRequest  `json:"schedule"`
	Goals            []GoalRequest     `json:"goals" binding:"omitempty,max=5,dive"`
}

// GetMe returns the authenticated user's profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Update training profile and goals
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /me/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	update := service.ProfileUpdate{
		Name:             req.Name,
		GoalFocus:        req.GoalFocus,
		ExperienceLevel:  req.ExperienceLevel,
		EquipmentProfile: req.EquipmentProfile,
		Age:              req.Age,
		Sex:              req.Sex,
		BodyweightKg:     req.BodyweightKg,
	}
	if req.Schedule != nil {
		update.WorkoutsPerWeek = req.Schedule.WorkoutsPerWeek
		update.MinutesPerSession = req.Schedule.MinutesPerSession
	}
	if req.Goals != nil {
		update.Goals = make([]domain.Goal, 0, len(req.Goals))
		for _, g := range req.Goals {
			update.Goals = append(update.Goals, domain.Goal{
				Type:         g.Type,
				TargetMetric: g.TargetMetric,
				TargetValue:  g.TargetValue,
				TargetDate:   g.TargetDate,
			})
		}
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
