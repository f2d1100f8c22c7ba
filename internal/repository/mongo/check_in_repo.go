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

const checkInCollectionName = "progress_check_ins"

// mongoCheckInRepository implements repository.CheckInRepository
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new ProgressCheckIn repository.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Create appends a check-in. CreatedAt is kept when the caller backdates it.
func (r *mongoCheckInRepository) Create(ctx context.Context, checkIn *domain.ProgressCheckIn) (primitive.ObjectID, error) {
	if checkIn.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("check-in requires userId")
	}
	checkIn.ID = primitive.NewObjectID()
	if checkIn.CreatedAt.IsZero() {
		checkIn.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, checkIn)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted check-in ID")
	}
	return insertedID, nil
}

// ListRecent returns the latest check-ins of a user, newest first.
func (r *mongoCheckInRepository) ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.ProgressCheckIn, error) {
	checkIns := []domain.ProgressCheckIn{}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// LatestBySessions returns the newest check-in logged alongside each session.
// Sessions without a check-in are absent from the map.
func (r *mongoCheckInRepository) LatestBySessions(ctx context.Context, sessionIDs []primitive.ObjectID) (map[primitive.ObjectID]domain.ProgressCheckIn, error) {
	latest := make(map[primitive.ObjectID]domain.ProgressCheckIn, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return latest, nil
	}

	filter := bson.M{"workoutSessionId": bson.M{"$in": sessionIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var checkIn domain.ProgressCheckIn
		if err := cursor.Decode(&checkIn); err != nil {
			return nil, err
		}
		if checkIn.WorkoutSessionID == nil {
			continue
		}
		// Sorted newest first, so the first hit per session wins
		if _, seen := latest[*checkIn.WorkoutSessionID]; !seen {
			latest[*checkIn.WorkoutSessionID] = checkIn
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return latest, nil
}

// EnsureCheckInIndexes creates necessary indexes. Call during startup.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "workoutSessionId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
