package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalFocus is the training emphasis a user selects in settings.
type GoalFocus string

const (
	GoalHypertrophy GoalFocus = "HYPERTROPHY"
	GoalStrength    GoalFocus = "STRENGTH"
	GoalFatLoss     GoalFocus = "FAT_LOSS"
	GoalRecomp      GoalFocus = "RECOMP"
	GoalPower       GoalFocus = "POWER"
	GoalEndurance   GoalFocus = "ENDURANCE"
)

// Label returns the human readable name shown in prompts and the UI.
func (g GoalFocus) Label() string {
	switch g {
	case GoalHypertrophy:
		return "Build muscle"
	case GoalStrength:
		return "Strength / PRs"
	case GoalFatLoss:
		return "Cut / fat loss"
	case GoalRecomp:
		return "Body recomposition"
	case GoalPower:
		return "Power / athleticism"
	case GoalEndurance:
		return "Endurance / conditioning"
	}
	return string(g)
}

// Schedule is the weekly training availability of a user.
type Schedule struct {
	WorkoutsPerWeek   *int `bson:"workoutsPerWeek,omitempty" json:"workoutsPerWeek,omitempty"`
	MinutesPerSession *int `bson:"minutesPerSession,omitempty" json:"minutesPerSession,omitempty"`
}

// Goal is a measurable target the user is working towards.
type Goal struct {
	Type         string     `bson:"type" json:"type"`                 // e.g. "STRENGTH", "BODY_COMP"
	TargetMetric string     `bson:"targetMetric" json:"targetMetric"` // e.g. "Back squat 1RM"
	TargetValue  *float64   `bson:"targetValue,omitempty" json:"targetValue,omitempty"`
	TargetDate   *time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
}

// User is the lifter owning sessions, check-ins, templates and plans.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash     string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	GoalFocus        GoalFocus          `bson:"goalFocus,omitempty" json:"goalFocus,omitempty"`
	ExperienceLevel  string             `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	EquipmentProfile string             `bson:"equipmentProfile,omitempty" json:"equipmentProfile,omitempty"`
	Age              *int               `bson:"age,omitempty" json:"age,omitempty"`
	Sex              string             `bson:"sex,omitempty" json:"sex,omitempty"`
	BodyweightKg     *float64           `bson:"bodyweightKg,omitempty" json:"bodyweightKg,omitempty"`
	Schedule         Schedule           `bson:"schedule" json:"schedule"`
	Goals            []Goal             `bson:"goals,omitempty" json:"goals,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
