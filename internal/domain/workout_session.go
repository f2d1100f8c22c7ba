package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetEntry is one performed set. Sets are embedded in their session and
// written together with it.
type SetEntry struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber  int                `bson:"setNumber" json:"setNumber"`
	Reps       int                `bson:"reps" json:"reps"`
	WeightKg   *float64           `bson:"weightKg,omitempty" json:"weightKg"`
	RPE        *float64           `bson:"rpe,omitempty" json:"rpe"` // 1-10, nil when not reported
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IsPR       bool               `bson:"isPr" json:"isPr"`
}

// WorkoutSession represents one logged training event. Immutable once created.
type WorkoutSession struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID  `bson:"userId" json:"userId"`
	SessionDate         time.Time           `bson:"sessionDate" json:"sessionDate"`
	TemplateDayID       *primitive.ObjectID `bson:"templateDayId,omitempty" json:"templateDayId,omitempty"` // Prescribed day this session followed, if any
	DurationMinutes     *int                `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	PerceivedDifficulty *int                `bson:"perceivedDifficulty,omitempty" json:"perceivedDifficulty,omitempty"`
	Notes               string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Sets                []SetEntry          `bson:"sets" json:"sets"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
}
