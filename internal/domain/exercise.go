// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassificationCustom marks exercises created on the fly from AI plan lifts.
const ClassificationCustom = "CUSTOM"

// Exercise represents a single exercise definition in the shared library.
// Names are unique and matched exactly (case-sensitive).
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	PrimaryMuscle    string             `bson:"primaryMuscle" json:"primaryMuscle"`     // e.g., "LEGS", "CHEST", "CUSTOM"
	MovementPattern  string             `bson:"movementPattern" json:"movementPattern"` // e.g., "SQUAT", "HINGE"
	Equipment        string             `bson:"equipment" json:"equipment"`             // e.g., "FULL_GYM", "DUMBBELLS_ONLY"
	Difficulty       string             `bson:"difficulty" json:"difficulty"`           // e.g., "MODERATE", "HARD"
	SecondaryMuscles []string           `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	DefaultSets      int                `bson:"defaultSets,omitempty" json:"defaultSets,omitempty"`
	DefaultReps      string             `bson:"defaultReps,omitempty" json:"defaultReps,omitempty"` // e.g., "6-8", "max", "45-60s"
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewCustomExercise returns an exercise with the generic classification used
// when a plan prescribes a lift that is not in the library yet.
func NewCustomExercise(name string) *Exercise {
	return &Exercise{
		Name:            name,
		PrimaryMuscle:   ClassificationCustom,
		MovementPattern: ClassificationCustom,
		Equipment:       "FULL_GYM",
		Difficulty:      "MODERATE",
	}
}
