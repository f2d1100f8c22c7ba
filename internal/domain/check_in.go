package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressCheckIn is a point-in-time body-state sample. Append-only.
type ProgressCheckIn struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID  `bson:"userId" json:"userId"`
	WorkoutSessionID *primitive.ObjectID `bson:"workoutSessionId,omitempty" json:"workoutSessionId,omitempty"`
	WeightKg         *float64            `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	ReadinessScore   *int                `bson:"readinessScore,omitempty" json:"readinessScore,omitempty"`
	AppetiteScore    *int                `bson:"appetiteScore,omitempty" json:"appetiteScore,omitempty"`
	SorenessScore    *int                `bson:"sorenessScore,omitempty" json:"sorenessScore,omitempty"`
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoURL         string              `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
}

// HasData reports whether the check-in carries anything worth storing.
func (c *ProgressCheckIn) HasData() bool {
	return c.WeightKg != nil ||
		c.ReadinessScore != nil ||
		c.AppetiteScore != nil ||
		c.SorenessScore != nil ||
		c.Notes != "" ||
		c.PhotoURL != ""
}
