package coach

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Rules on a Reps field apply to its text form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if r, ok := field.Interface().(Reps); ok {
			return r.text
		}
		return nil
	}, Reps{})
	return v
}

// Reps is a prescription that the model may send either as a string ("6-8")
// or a number (8). It re-encodes in the form it arrived in.
type Reps struct {
	text    string
	numeric bool
}

// RepsText builds a string prescription.
func RepsText(s string) Reps { return Reps{text: s} }

// RepsCount builds a numeric prescription.
func RepsCount(n int) Reps { return Reps{text: strconv.Itoa(n), numeric: true} }

// String is the stored form: numbers stringified, strings unchanged.
func (r Reps) String() string { return r.text }

func (r Reps) MarshalJSON() ([]byte, error) {
	if r.numeric {
		return []byte(r.text), nil
	}
	return json.Marshal(r.text)
}

func (r *Reps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Reps{text: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reps must be a string or a number: %w", err)
	}
	*r = Reps{text: n.String(), numeric: true}
	return nil
}

// --- Compliance review ---

type SetAdjustment struct {
	Exercise   string `json:"exercise" validate:"required"`
	Adjustment string `json:"adjustment" validate:"required"`
	Rationale  string `json:"rationale"`
	Priority   string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

type DayReschedule struct {
	Day            string `json:"day" validate:"required"`
	Recommendation string `json:"recommendation" validate:"required"`
}

// ComplianceReport is the model's answer to a compliance review.
type ComplianceReport struct {
	TrainingSummary string          `json:"training_summary" validate:"required"`
	Issues          []string        `json:"issues" validate:"required,max=6,dive,min=3"`
	SetAdjustments  []SetAdjustment `json:"set_adjustments" validate:"required,max=6,dive"`
	DayReschedules  []DayReschedule `json:"day_reschedules" validate:"required,max=4,dive"`
	RecoveryNotes   string          `json:"recovery_notes,omitempty"`
}

func (r *ComplianceReport) Validate() error { return validate.Struct(r) }

// --- Body composition ---

type MacroAdjustments struct {
	CalorieDelta int `json:"calorie_delta"`
	ProteinG     int `json:"protein_g" validate:"min=0"`
	CarbsG       int `json:"carbs_g" validate:"min=0"`
	FatsG        int `json:"fats_g" validate:"min=0"`
}

// BodyCompInsight is the model's body-composition evaluation.
type BodyCompInsight struct {
	Trend            string           `json:"trend" validate:"required,oneof=leaning stable gaining"`
	WeightSummary    string           `json:"weight_summary" validate:"required"`
	VisualCallouts   []string         `json:"visual_callouts" validate:"required,max=4"`
	MacroAdjustments MacroAdjustments `json:"macro_adjustments"`
	NextActions      []string         `json:"next_actions" validate:"required,max=5"`
	CautionNotes     string           `json:"caution_notes,omitempty"`
}

func (i *BodyCompInsight) Validate() error { return validate.Struct(i) }

// --- Weekly plan ---

const minPlanDays = 3

type KeyLift struct {
	Name      string   `json:"name" validate:"required"`
	Sets      int      `json:"sets" validate:"gt=0"`
	Reps      Reps     `json:"reps" validate:"required"`
	TargetRPE *float64 `json:"target_rpe,omitempty" validate:"omitempty,min=5,max=10"`
	Notes     string   `json:"notes,omitempty"`
}

type WorkoutDay struct {
	Day            string    `json:"day" validate:"required"`
	Focus          string    `json:"focus"`
	KeyLifts       []KeyLift `json:"key_lifts" validate:"required,dive"`
	AccessoryFocus string    `json:"accessory_focus,omitempty"`
	RecoveryFocus  string    `json:"recovery_focus,omitempty"`
}

type MealMacros struct {
	ProteinG int `json:"protein_g" validate:"gt=0"`
	CarbsG   int `json:"carbs_g" validate:"min=0"`
	FatsG    int `json:"fats_g" validate:"min=0"`
}

type MealDay struct {
	Day        string     `json:"day" validate:"required"`
	Calories   int        `json:"calories" validate:"gt=0"`
	Macros     MealMacros `json:"macros"`
	RecipeIdea string     `json:"recipe_idea"`
}

// WeeklyPlan is the weekly plan payload. Element rules live in the tags; the
// three-day minimum only applies to freshly generated plans (see Validate).
type WeeklyPlan struct {
	WeekLabel           string       `json:"week_label" validate:"required"`
	CoachingFocus       string       `json:"coaching_focus" validate:"required"`
	WorkoutSchedule     []WorkoutDay `json:"workout_schedule" validate:"required,dive"`
	MealPlan            []MealDay    `json:"meal_plan" validate:"required,dive"`
	AccountabilityNotes string       `json:"accountability_notes,omitempty"`
}

var ErrPlanTooShort = errors.New("weekly plan needs at least three workout days and three meal days")

// Validate checks a plan the model just generated.
func (p *WeeklyPlan) Validate() error {
	if err := p.ValidateStored(); err != nil {
		return err
	}
	if len(p.WorkoutSchedule) < minPlanDays || len(p.MealPlan) < minPlanDays {
		return ErrPlanTooShort
	}
	return nil
}

// ValidateStored checks a plan read back from storage, where legacy and
// placeholder plans may hold fewer days.
func (p *WeeklyPlan) ValidateStored() error { return validate.Struct(p) }

// --- Initial program ---

type ProgramExercise struct {
	Name            string   `json:"name" validate:"required"`
	Sets            int      `json:"sets" validate:"gt=0"`
	Reps            Reps     `json:"reps" validate:"required"`
	TargetRPE       *float64 `json:"target_rpe,omitempty" validate:"omitempty,min=5,max=9"`
	InitialWeightKg *float64 `json:"initial_weight_kg,omitempty" validate:"omitempty,min=0"`
	Notes           string   `json:"notes,omitempty"`
}

type ProgramDay struct {
	DayName   string            `json:"day_name" validate:"required"`
	Focus     string            `json:"focus"`
	Exercises []ProgramExercise `json:"exercises" validate:"required,dive"`
}

// ProgramPlan is the initial program the model designs from the profile.
type ProgramPlan struct {
	PlanSummary         string       `json:"plan_summary" validate:"required"`
	WeeklySchedule      []ProgramDay `json:"weekly_schedule" validate:"required,min=1,dive"`
	ProgressionStrategy string       `json:"progression_strategy" validate:"required"`
	RecoveryGuidelines  string       `json:"recovery_guidelines" validate:"required"`
}

func (p *ProgramPlan) Validate() error { return validate.Struct(p) }

// --- Adjustment ---

type ExerciseSwap struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Reason string `json:"reason"`
}

// AdjustmentPlan is the model's answer to a request for a fresh adjustment.
type AdjustmentPlan struct {
	Summary            string         `json:"summary" validate:"required"`
	KeyChanges         []string       `json:"key_changes" validate:"required,max=6"`
	DeloadRecommended  bool           `json:"deload_recommended"`
	ExerciseSwaps      []ExerciseSwap `json:"exercise_swaps" validate:"max=4,dive"`
	ChangesExplanation string         `json:"changes_explanation" validate:"required"`
}

func (a *AdjustmentPlan) Validate() error { return validate.Struct(a) }
