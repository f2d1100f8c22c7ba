package mongo

import (
	"context"
	"errors"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	weeklyPlanCollectionName = "weekly_plans"
	mealPrepCollectionName   = "meal_preps"
)

// mongoWeeklyPlanRepository implements repository.WeeklyPlanRepository
type mongoWeeklyPlanRepository struct {
	plans *mongo.Collection
	meals *mongo.Collection
}

// NewMongoWeeklyPlanRepository creates a new WeeklyPlan repository.
func NewMongoWeeklyPlanRepository(db *mongo.Database) repository.WeeklyPlanRepository {
	return &mongoWeeklyPlanRepository{
		plans: db.Collection(weeklyPlanCollectionName),
		meals: db.Collection(mealPrepCollectionName),
	}
}

// Create inserts a new weekly plan with applied=false.
func (r *mongoWeeklyPlanRepository) Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.RecommendationID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("weekly plan requires userId and aiRecommendationId")
	}
	plan.ID = primitive.NewObjectID()
	plan.Applied = false
	plan.CreatedAt = time.Now().UTC()

	result, err := r.plans.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted weekly plan ID")
	}
	return insertedID, nil
}

// CreateMealPrep inserts one meal-prep day of a plan.
func (r *mongoWeeklyPlanRepository) CreateMealPrep(ctx context.Context, meal *domain.MealPrep) (primitive.ObjectID, error) {
	if meal.WeeklyPlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("meal prep requires weeklyPlanId")
	}
	meal.ID = primitive.NewObjectID()

	result, err := r.meals.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted meal prep ID")
	}
	return insertedID, nil
}

// GetForUser retrieves a plan only if it belongs to userID.
func (r *mongoWeeklyPlanRepository) GetForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID}, nil)
}

// GetLatest returns the plan with the most recent weekOf for a user.
func (r *mongoWeeklyPlanRepository) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "weekOf", Value: -1}, {Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{"userId": userID}, opts)
}

func (r *mongoWeeklyPlanRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.WeeklyPlan, error) {
	var plan domain.WeeklyPlan
	var err error
	if opts != nil {
		err = r.plans.FindOne(ctx, filter, opts).Decode(&plan)
	} else {
		err = r.plans.FindOne(ctx, filter).Decode(&plan)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListMealPreps returns the meal preps of a plan ordered by dayIndex.
func (r *mongoWeeklyPlanRepository) ListMealPreps(ctx context.Context, planID primitive.ObjectID) ([]domain.MealPrep, error) {
	meals := []domain.MealPrep{}
	opts := options.Find().SetSort(bson.D{{Key: "dayIndex", Value: 1}})
	cursor, err := r.meals.Find(ctx, bson.M{"weeklyPlanId": planID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// MarkApplied flips the applied flag of a plan to true.
func (r *mongoWeeklyPlanRepository) MarkApplied(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.plans.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"applied": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeeklyPlanIndexes creates necessary indexes. Call during startup.
func EnsureWeeklyPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "weekOf", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureMealPrepIndexes creates necessary indexes. Call during startup.
func EnsureMealPrepIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "weeklyPlanId", Value: 1}, {Key: "dayIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
