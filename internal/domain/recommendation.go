package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecommendationType identifies which analysis produced a recommendation.
type RecommendationType string

const (
	RecommendationInitial          RecommendationType = "INITIAL"
	RecommendationAdjustment       RecommendationType = "ADJUSTMENT"
	RecommendationComplianceReview RecommendationType = "COMPLIANCE_REVIEW"
	RecommendationBodyComp         RecommendationType = "BODY_COMP"
	RecommendationWeeklyPlan       RecommendationType = "WEEKLY_PLAN"
)

// AiRecommendation is the immutable audit record of one completion round-trip.
type AiRecommendation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Type            RecommendationType `bson:"type" json:"type"`
	PromptSnapshot  string             `bson:"promptSnapshot" json:"promptSnapshot"`
	ResponsePayload string             `bson:"responsePayload" json:"responsePayload"` // Validated JSON text
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
