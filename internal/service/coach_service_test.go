package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/ai"
	"liftbrain/fitness-coach/internal/coach"
	"liftbrain/fitness-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const complianceResponse = `{
  "training_summary": "Bench volume slipped while RPE ran hot.",
  "issues": ["Bench Press 3/4 sets"],
  "set_adjustments": [{"exercise": "Bench Press", "adjustment": "Hold 3 sets", "rationale": "RPE above target", "priority": "high"}],
  "day_reschedules": [],
  "recovery_notes": "Sleep 8h before upper days."
}`

const bodyCompResponse = `{
  "trend": "leaning",
  "weight_summary": "Down 0.8 kg over the window.",
  "visual_callouts": [],
  "macro_adjustments": {"calorie_delta": -100, "protein_g": 180, "carbs_g": 220, "fats_g": 60},
  "next_actions": ["Keep protein at 180 g"]
}`

const weeklyPlanResponse = `{
  "week_label": "Week of Jan 13",
  "coaching_focus": "Rebuild bench volume",
  "workout_schedule": [
    {"day": "Monday - Upper", "focus": "Push", "key_lifts": [
      {"name": "Bench Press", "sets": 4, "reps": "6-8", "target_rpe": 8},
      {"name": "Cable Fly", "sets": 3, "reps": 12}
    ]},
    {"day": "Wednesday - Lower", "focus": "Squat", "key_lifts": [
      {"name": "Back Squat", "sets": 5, "reps": 5}
    ]},
    {"day": "Friday - Full", "focus": "", "key_lifts": [
      {"name": "Bench Press", "sets": 3, "reps": "8"}
    ]}
  ],
  "meal_plan": [
    {"day": "Monday", "calories": 2600, "macros": {"protein_g": 180, "carbs_g": 280, "fats_g": 70}, "recipe_idea": "Chicken rice bowl"},
    {"day": "Wednesday", "calories": 2500, "macros": {"protein_g": 180, "carbs_g": 250, "fats_g": 70}, "recipe_idea": "Salmon and potatoes"},
    {"day": "Friday", "calories": 2700, "macros": {"protein_g": 185, "carbs_g": 300, "fats_g": 70}, "recipe_idea": "Beef chili"}
  ]
}`

type coachFixture struct {
	db        *memDB
	completer *fakeCompleter
	svc       *coachService
	userID    primitive.ObjectID
	bench     primitive.ObjectID
	squat     primitive.ObjectID
}

func newCoachFixture(t *testing.T) *coachFixture {
	t.Helper()
	db := newMemDB()
	completer := newFakeCompleter()
	completer.responses["compliance"] = complianceResponse
	completer.responses["body_comp"] = bodyCompResponse
	completer.responses["weekly_plan"] = weeklyPlanResponse

	svc := NewCoachService(CoachRepositories{
		Users:           memUserRepo{db},
		Sessions:        memSessionRepo{db},
		CheckIns:        memCheckInRepo{db},
		Exercises:       memExerciseRepo{db},
		Templates:       memTemplateRepo{db},
		Recommendations: memRecommendationRepo{db},
		WeeklyPlans:     memWeeklyPlanRepo{db},
	}, memTransactor{db}, completer, CoachModels{WeeklyPlan: "gpt-4.1"}, zap.NewNop()).(*coachService)
	// Wednesday, so the target week starts Monday Jan 13
	svc.now = func() time.Time { return time.Date(2025, 1, 8, 18, 30, 0, 0, time.UTC) }

	ctx := context.Background()
	userID, err := memUserRepo{db}.Create(ctx, &domain.User{Name: "Sam", Email: "sam@example.com", GoalFocus: domain.GoalStrength})
	require.NoError(t, err)
	bench, err := memExerciseRepo{db}.Create(ctx, &domain.Exercise{Name: "Bench Press"})
	require.NoError(t, err)
	squat, err := memExerciseRepo{db}.Create(ctx, &domain.Exercise{Name: "Back Squat"})
	require.NoError(t, err)

	return &coachFixture{db: db, completer: completer, svc: svc, userID: userID, bench: bench, squat: squat}
}

// seedTraining logs one prescribed bench session with a check-in.
func (f *coachFixture) seedTraining(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	dayID, err := memTemplateRepo{f.db}.CreateDay(ctx, &domain.TemplateDay{
		UserID:   f.userID,
		DayIndex: 0,
		DayName:  "Upper",
		Exercises: []domain.TemplateDayExercise{
			{ExerciseID: f.bench, ExerciseName: "Bench Press", PrescribedSets: 4, PrescribedReps: "6-8", TargetRPE: ptr(8.0)},
		},
	})
	require.NoError(t, err)

	sessionID, err := memSessionRepo{f.db}.Create(ctx, &domain.WorkoutSession{
		UserID:        f.userID,
		SessionDate:   time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC),
		TemplateDayID: &dayID,
		Sets: []domain.SetEntry{
			{ExerciseID: f.bench, SetNumber: 1, Reps: 8, WeightKg: ptr(80.0), RPE: ptr(9.0)},
			{ExerciseID: f.bench, SetNumber: 2, Reps: 7, WeightKg: ptr(80.0), RPE: ptr(9.0)},
			{ExerciseID: f.bench, SetNumber: 3, Reps: 6, WeightKg: ptr(80.0), RPE: ptr(9.0)},
		},
	})
	require.NoError(t, err)

	_, err = memCheckInRepo{f.db}.Create(ctx, &domain.ProgressCheckIn{
		UserID:           f.userID,
		WorkoutSessionID: &sessionID,
		ReadinessScore:   ptr(6),
	})
	require.NoError(t, err)
}

func (f *coachFixture) seedCheckIns(t *testing.T, weights ...float64) {
	t.Helper()
	for _, w := range weights {
		_, err := memCheckInRepo{f.db}.Create(context.Background(), &domain.ProgressCheckIn{UserID: f.userID, WeightKg: ptr(w)})
		require.NoError(t, err)
	}
}

func TestRunComplianceAnalysis_NoSessions(t *testing.T) {
	f := newCoachFixture(t)

	_, err := f.svc.RunComplianceAnalysis(context.Background(), f.userID)

	assert.ErrorIs(t, err, coach.ErrNoTrainingHistory)
	assert.Zero(t, f.completer.calls("compliance"))
	assert.Empty(t, f.db.recs)
}

func TestRunComplianceAnalysis_PersistsRecommendation(t *testing.T) {
	f := newCoachFixture(t)
	f.seedTraining(t)

	result, err := f.svc.RunComplianceAnalysis(context.Background(), f.userID)
	require.NoError(t, err)

	prompt := f.completer.lastPrompt("compliance")
	assert.Contains(t, prompt, "Upper")
	assert.Contains(t, prompt, "Bench Press 3/4 sets")

	require.Len(t, f.db.recs, 1)
	rec := f.db.recs[0]
	assert.Equal(t, result.RecommendationID, rec.ID)
	assert.Equal(t, domain.RecommendationComplianceReview, rec.Type)
	assert.Equal(t, prompt, rec.PromptSnapshot)

	var stored coach.ComplianceReport
	require.NoError(t, json.Unmarshal([]byte(rec.ResponsePayload), &stored))
	assert.Equal(t, result.Report.TrainingSummary, stored.TrainingSummary)
}

func TestRunComplianceAnalysis_SchemaViolationPersistsNothing(t *testing.T) {
	f := newCoachFixture(t)
	f.seedTraining(t)
	f.completer.responses["compliance"] = `{"training_summary": ""}`

	_, err := f.svc.RunComplianceAnalysis(context.Background(), f.userID)

	assert.ErrorIs(t, err, ai.ErrSchemaViolation)
	assert.Empty(t, f.db.recs)
}

func TestRunBodyCompEvaluation_Preconditions(t *testing.T) {
	f := newCoachFixture(t)

	_, err := f.svc.RunBodyCompEvaluation(context.Background(), f.userID)
	assert.ErrorIs(t, err, coach.ErrNoCheckIns)

	f.seedCheckIns(t, 82.4)
	_, err = f.svc.RunBodyCompEvaluation(context.Background(), f.userID)
	assert.ErrorIs(t, err, coach.ErrInsufficientSignal)
	assert.Zero(t, f.completer.calls("body_comp"))
}

func TestRunBodyCompEvaluation_OK(t *testing.T) {
	f := newCoachFixture(t)
	f.seedCheckIns(t, 82.4, 81.6)

	result, err := f.svc.RunBodyCompEvaluation(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, "leaning", result.Insight.Trend)
	assert.Contains(t, f.completer.lastPrompt("body_comp"), "81.6")
	require.Len(t, f.db.recs, 1)
	assert.Equal(t, domain.RecommendationBodyComp, f.db.recs[0].Type)
}

func TestRunInitialProgram_UsesBaselineLifts(t *testing.T) {
	f := newCoachFixture(t)
	f.seedTraining(t)
	f.completer.responses["program"] = `{
	  "plan_summary": "Three day upper/lower",
	  "weekly_schedule": [{"day_name": "Day 1", "focus": "Upper", "exercises": [{"name": "Bench Press", "sets": 4, "reps": 6}]}],
	  "progression_strategy": "Add 2.5 kg when all reps are hit",
	  "recovery_guidelines": "Two rest days"
	}`

	result, err := f.svc.RunInitialProgram(context.Background(), f.userID, ProgramInput{Constraints: []string{"Bad left knee"}})
	require.NoError(t, err)

	prompt := f.completer.lastPrompt("program")
	assert.Contains(t, prompt, "Bench Press: 80 kg x 8")
	assert.Contains(t, prompt, "Bad left knee")
	assert.Equal(t, "6", result.Plan.WeeklySchedule[0].Exercises[0].Reps.String())
	require.Len(t, f.db.recs, 1)
	assert.Equal(t, domain.RecommendationInitial, f.db.recs[0].Type)
}

func TestRequestAdjustment_WithoutTemplate(t *testing.T) {
	f := newCoachFixture(t)
	f.completer.responses["adjustment"] = `{
	  "summary": "Hold volume",
	  "key_changes": ["Keep bench at 4 sets"],
	  "deload_recommended": false,
	  "exercise_swaps": [],
	  "changes_explanation": "No data suggests a change"
	}`

	result, err := f.svc.RequestAdjustment(context.Background(), f.userID, AdjustmentInput{Issues: []string{"Shoulder twinge"}})
	require.NoError(t, err)

	assert.False(t, result.Adjustment.DeloadRecommended)
	prompt := f.completer.lastPrompt("adjustment")
	assert.Contains(t, prompt, "No active plan")
	assert.Contains(t, prompt, "Shoulder twinge")
	require.Len(t, f.db.recs, 1)
	assert.Equal(t, domain.RecommendationAdjustment, f.db.recs[0].Type)
}

func TestRunAnalysis_UnknownUser(t *testing.T) {
	f := newCoachFixture(t)

	_, err := f.svc.RunComplianceAnalysis(context.Background(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrUserNotFound)
}
