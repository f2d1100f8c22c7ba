// internal/domain/workout_template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a prescriptive plan. Templates are never updated; a new
// plan creates a new template with the next AIVersion for the user.
type WorkoutTemplate struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID  `bson:"userId" json:"userId"`
	Name         string              `bson:"name" json:"name"` // e.g., "AI Plan – Week of Jan 13"
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	WeeklyDays   int                 `bson:"weeklyDays" json:"weeklyDays"`
	AIVersion    int                 `bson:"aiVersion" json:"aiVersion"`
	WeeklyPlanID *primitive.ObjectID `bson:"weeklyPlanId,omitempty" json:"weeklyPlanId,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// TemplateDayExercise is one prescribed lift of a template day.
type TemplateDayExercise struct {
	ExerciseID     primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseName   string             `bson:"exerciseName" json:"exerciseName"` // Denormalized for aggregation
	PrescribedSets int                `bson:"prescribedSets" json:"prescribedSets"`
	PrescribedReps string             `bson:"prescribedReps" json:"prescribedReps"`
	TargetRPE      *float64           `bson:"targetRpe,omitempty" json:"targetRpe,omitempty"`
	Instructions   string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
}

// TemplateDay is one day of a WorkoutTemplate.
type TemplateDay struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	TemplateID primitive.ObjectID    `bson:"workoutTemplateId" json:"workoutTemplateId"`
	UserID     primitive.ObjectID    `bson:"userId" json:"userId"` // Denormalized for ownership checks
	DayIndex   int                   `bson:"dayIndex" json:"dayIndex"`
	DayName    string                `bson:"dayName" json:"dayName"`
	FocusArea  string                `bson:"focusArea,omitempty" json:"focusArea,omitempty"`
	Exercises  []TemplateDayExercise `bson:"exercises" json:"exercises"`
	CreatedAt  time.Time             `bson:"createdAt" json:"createdAt"`
}
