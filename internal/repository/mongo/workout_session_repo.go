// internal/repository/mongo/workout_session_repo.go
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

const sessionCollectionName = "workout_sessions"

// mongoWorkoutSessionRepository implements repository.WorkoutSessionRepository
type mongoWorkoutSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutSessionRepository creates a new WorkoutSession repository.
func NewMongoWorkoutSessionRepository(db *mongo.Database) repository.WorkoutSessionRepository {
	return &mongoWorkoutSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a session together with its sets in a single document write.
func (r *mongoWorkoutSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || len(session.Sets) == 0 {
		return primitive.NilObjectID, errors.New("workout session requires userId and at least one set")
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// ListRecent returns the latest sessions of a user, newest first.
func (r *mongoWorkoutSessionRepository) ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.WorkoutSession, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "sessionDate", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"userId": userID}, findOptions)
}

// ListBetween returns sessions of a user inside an optional date range, newest first.
func (r *mongoWorkoutSessionRepository) ListBetween(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID}
	dateRange := bson.M{}
	if from != nil {
		dateRange["$gte"] = *from
	}
	if to != nil {
		dateRange["$lte"] = *to
	}
	if len(dateRange) > 0 {
		filter["sessionDate"] = dateRange
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "sessionDate", Value: -1}}))
}

func (r *mongoWorkoutSessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.WorkoutSession, error) {
	sessions := []domain.WorkoutSession{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// EnsureWorkoutSessionIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Recent-history queries for the compliance analyzer
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "sessionDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
