package api

import (
	"errors"
	"fmt"
	"net/http"

	"liftbrain/fitness-coach/internal/ai"
	"liftbrain/fitness-coach/internal/coach"
	"liftbrain/fitness-coach/internal/service"
	"liftbrain/fitness-coach/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// businessErrors are answered with 400 and their own message.
var businessErrors = []error{
	coach.ErrNoTrainingHistory,
	coach.ErrNoCheckIns,
	coach.ErrInsufficientSignal,
	service.ErrPlanNotFound,
	service.ErrEmptyPlan,
	service.ErrPlanAlreadyApplied,
	service.ErrNoSets,
	service.ErrInvalidSet,
	service.ErrUnknownExercise,
	service.ErrTemplateDayNotFound,
	service.ErrWeightOutOfRange,
	service.ErrScoreOutOfRange,
	service.ErrExerciseNameEmpty,
	storage.ErrUnsupportedContentType,
	storage.ErrFileTooLarge,
	ai.ErrModelUnavailable,
	ai.ErrTransport,
	ai.ErrSchemaViolation,
}

// respondError maps err to a response. Unknown errors are attached to the
// context for the request logger and answered with a generic 500.
func respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrUserNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, fallback)
}

// bindJSON binds and validates the body, answering 400 with field details on failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError(fe))
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation error", "details": details})
		return false
	}
	abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
	return false
}

func fieldError(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s: must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag())
}
