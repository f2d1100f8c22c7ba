package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyPlan is one generated 7-day plan. Applied flips to true exactly once
// when the plan is turned into a WorkoutTemplate.
type WeeklyPlan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	WeekOf           time.Time          `bson:"weekOf" json:"weekOf"`
	WorkoutPlanJSON  string             `bson:"workoutPlanJson" json:"-"` // Full payload, or a bare schedule array for older plans
	MealPlanJSON     string             `bson:"mealPlanJson,omitempty" json:"-"`
	Applied          bool               `bson:"applied" json:"applied"`
	RecommendationID primitive.ObjectID `bson:"aiRecommendationId" json:"aiRecommendationId"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// MealPrep is the per-day nutrition breakdown attached to a WeeklyPlan.
type MealPrep struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeeklyPlanID  primitive.ObjectID `bson:"weeklyPlanId" json:"weeklyPlanId"`
	DayIndex      int                `bson:"dayIndex" json:"dayIndex"`
	MealsJSON     string             `bson:"mealsJson" json:"mealsJson"`
	DailyCalories int                `bson:"dailyCalories" json:"dailyCalories"`
	MacrosJSON    string             `bson:"macrosJson" json:"macrosJson"`
}
