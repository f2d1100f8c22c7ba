package api

import (
	"net/http"
	"strconv"

	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type ProgramRequest struct {
	Constraints []string `json:"constraints" binding:"max=10,dive,max=200"`
}

type AdjustmentRequest struct {
	Issues      []string `json:"issues" binding:"max=10,dive,max=200"`
	Constraints []string `json:"constraints" binding:"max=10,dive,max=200"`
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}

// RunInitialProgram godoc
// @Summary Generate a starting program from the profile and training baseline
// @Tags AI
// @Security BearerAuth
// @Router /ai/program [post]
func (h *CoachHandler) RunInitialProgram(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req ProgramRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.coachService.RunInitialProgram(c.Request.Context(), userID, service.ProgramInput{Constraints: req.Constraints})
	if err != nil {
		respondError(c, err, "Failed to generate program.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": result.Plan, "recommendationId": result.RecommendationID})
}

// RequestAdjustment godoc
// @Summary Adjust the active plan for reported issues
// @Tags AI
// @Security BearerAuth
// @Router /ai/adjustment [post]
func (h *CoachHandler) RequestAdjustment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	var req AdjustmentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.coachService.RequestAdjustment(c.Request.Context(), userID, service.AdjustmentInput{
		Issues:      req.Issues,
		Constraints: req.Constraints,
	})
	if err != nil {
		respondError(c, err, "Failed to generate adjustment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustment": result.Adjustment, "recommendationId": result.RecommendationID})
}

func (h *CoachHandler) RunComplianceAnalysis(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	result, err := h.coachService.RunComplianceAnalysis(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to run compliance analysis.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": result.Report, "recommendationId": result.RecommendationID})
}

func (h *CoachHandler) RunBodyCompEvaluation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	result, err := h.coachService.RunBodyCompEvaluation(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to run body composition evaluation.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": result.Insight, "recommendationId": result.RecommendationID})
}

// GenerateWeeklyPlan godoc
// @Summary Generate next week's training and meal plan
// @Tags Weekly Plan
// @Security BearerAuth
// @Router /ai/weekly-plan [post]
func (h *CoachHandler) GenerateWeeklyPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	result, err := h.coachService.GenerateWeeklyPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to generate weekly plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":             result.Plan,
		"weeklyPlanId":     result.WeeklyPlanID,
		"recommendationId": result.RecommendationID,
	})
}

// ApplyWeeklyPlan godoc
// @Summary Turn a stored weekly plan into a workout template
// @Tags Weekly Plan
// @Security BearerAuth
// @Param planId path string true "Weekly plan ID"
// @Param reapply query bool false "Apply again when already applied"
// @Router /weekly-plan/{planId}/apply [patch]
func (h *CoachHandler) ApplyWeeklyPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	var opts service.ApplyOptions
	if raw := c.Query("reapply"); raw != "" {
		opts.AllowReapply, err = strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'reapply' flag.")
			return
		}
	}

	result, err := h.coachService.ApplyWeeklyPlan(c.Request.Context(), userID, planID, opts)
	if err != nil {
		respondError(c, err, "Failed to apply weekly plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"templateId":   result.TemplateID,
		"templateName": result.TemplateName,
	})
}

// GetCurrentPlan returns the latest plan, or {"plan": null}.
func (h *CoachHandler) GetCurrentPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	plan, err := h.coachService.GetCurrentPlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load weekly plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (h *CoachHandler) ExportCalendar(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	body, err := h.coachService.ExportCalendar(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to export calendar.")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="weekly-plan.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
