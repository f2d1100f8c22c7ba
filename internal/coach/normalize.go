package coach

import (
	"bytes"
	"encoding/json"
	"time"

	"liftbrain/fitness-coach/internal/domain"
)

// PlanShape tells which stored layout a weekly plan was decoded from.
type PlanShape int

const (
	CurrentShape     PlanShape = iota // full payload object
	LegacyArrayShape                  // bare workout_schedule array, meals stored separately
	UnavailableShape                  // nothing usable, placeholder synthesized
)

func (s PlanShape) String() string {
	switch s {
	case CurrentShape:
		return "current"
	case LegacyArrayShape:
		return "legacy_array"
	case UnavailableShape:
		return "unavailable"
	}
	return "unknown"
}

const (
	legacyCoachingFocus      = "AI plan data (legacy format)"
	unavailableCoachingFocus = "Plan details unavailable"
)

// StoredPlan is a persisted plan after normalization.
type StoredPlan struct {
	Shape PlanShape
	Plan  WeeklyPlan
}

// NormalizeStoredPlan decodes a persisted plan into a payload that passes
// ValidateStored. It never fails; unusable data yields the placeholder shape.
// Meals come from the plan itself, else a non-empty mealPlanJSON, else the
// meal-prep rows. Invalid embedded meals are replaced by that fallback.
func NormalizeStoredPlan(record *domain.WeeklyPlan, preps []domain.MealPrep) StoredPlan {
	meals := storedMeals(record.MealPlanJSON, preps, record.WeekOf)
	label := record.WeekOf.UTC().Format("Jan 2, 2006")
	raw := bytes.TrimSpace([]byte(record.WorkoutPlanJSON))

	switch {
	case len(raw) > 0 && raw[0] == '{':
		var plan WeeklyPlan
		if hasKey(raw, "workout_schedule") && json.Unmarshal(raw, &plan) == nil {
			if len(plan.MealPlan) == 0 {
				plan.MealPlan = meals
			}
			if plan.ValidateStored() == nil {
				return StoredPlan{Shape: CurrentShape, Plan: plan}
			}
			// A bad embedded meal must not cost the schedule.
			plan.MealPlan = meals
			if plan.ValidateStored() == nil {
				return StoredPlan{Shape: CurrentShape, Plan: plan}
			}
		}
	case len(raw) > 0 && raw[0] == '[':
		var schedule []WorkoutDay
		if json.Unmarshal(raw, &schedule) == nil {
			plan := WeeklyPlan{
				WeekLabel:       label,
				CoachingFocus:   legacyCoachingFocus,
				WorkoutSchedule: schedule,
				MealPlan:        meals,
			}
			if plan.ValidateStored() == nil {
				return StoredPlan{Shape: LegacyArrayShape, Plan: plan}
			}
		}
	}

	return StoredPlan{Shape: UnavailableShape, Plan: WeeklyPlan{
		WeekLabel:       label,
		CoachingFocus:   unavailableCoachingFocus,
		WorkoutSchedule: []WorkoutDay{},
		MealPlan:        meals,
	}}
}

func hasKey(raw []byte, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	_, ok := fields[key]
	return ok
}

// storedMeals always returns a non-nil list whose entries validate.
func storedMeals(mealPlanJSON string, preps []domain.MealPrep, weekOf time.Time) []MealDay {
	var meals []MealDay
	if mealPlanJSON != "" && json.Unmarshal([]byte(mealPlanJSON), &meals) == nil && len(meals) > 0 && validMeals(meals) {
		return meals
	}

	meals = make([]MealDay, 0, len(preps))
	for _, prep := range preps {
		meal := MealDay{
			Day:      weekOf.AddDate(0, 0, prep.DayIndex).Weekday().String(),
			Calories: prep.DailyCalories,
		}
		var recipe struct {
			RecipeIdea string `json:"recipeIdea"`
		}
		_ = json.Unmarshal([]byte(prep.MealsJSON), &recipe)
		meal.RecipeIdea = recipe.RecipeIdea
		if json.Unmarshal([]byte(prep.MacrosJSON), &meal.Macros) != nil {
			continue
		}
		meals = append(meals, meal)
	}
	if !validMeals(meals) {
		return []MealDay{}
	}
	return meals
}

func validMeals(meals []MealDay) bool {
	if meals == nil {
		return false
	}
	for i := range meals {
		if validate.Struct(&meals[i]) != nil {
			return false
		}
	}
	return true
}
