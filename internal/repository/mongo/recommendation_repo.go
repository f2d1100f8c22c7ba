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

const recommendationCollectionName = "ai_recommendations"

// mongoRecommendationRepository implements repository.RecommendationRepository.
// Records are insert-only; there is no update path.
type mongoRecommendationRepository struct {
	collection *mongo.Collection
}

// NewMongoRecommendationRepository creates a new AiRecommendation repository.
func NewMongoRecommendationRepository(db *mongo.Database) repository.RecommendationRepository {
	return &mongoRecommendationRepository{
		collection: db.Collection(recommendationCollectionName),
	}
}

// Create appends a recommendation record.
func (r *mongoRecommendationRepository) Create(ctx context.Context, rec *domain.AiRecommendation) (primitive.ObjectID, error) {
	if rec.UserID == primitive.NilObjectID || rec.Type == "" || rec.ResponsePayload == "" {
		return primitive.NilObjectID, errors.New("recommendation requires userId, type, and responsePayload")
	}
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted recommendation ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single recommendation.
func (r *mongoRecommendationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AiRecommendation, error) {
	var rec domain.AiRecommendation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// EnsureRecommendationIndexes creates necessary indexes. Call during startup.
func EnsureRecommendationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
