package mongo

import (
	"context"
	"fmt"
	"time"

	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// mongoTransactor implements repository.Transactor with client sessions.
// Multi-document transactions require a replica set (a single-node replica set
// is enough for local development).
type mongoTransactor struct {
	client *mongo.Client
}

// NewTransactor creates a Transactor bound to the given client.
func NewTransactor(client *mongo.Client) repository.Transactor {
	return &mongoTransactor{client: client}
}

// WithTransaction runs fn in a majority-acknowledged transaction. The session
// context handed to fn must be used for every repository call that should be
// part of the transaction.
func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().SetWriteConcern(writeconcern.Majority())
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	return err
}

// EnsureIndexes creates the indexes of every collection. Call during startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ensurers := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{sessionCollectionName, EnsureWorkoutSessionIndexes},
		{checkInCollectionName, EnsureCheckInIndexes},
		{templateCollectionName, EnsureTemplateIndexes},
		{templateDayCollectionName, EnsureTemplateDayIndexes},
		{recommendationCollectionName, EnsureRecommendationIndexes},
		{weeklyPlanCollectionName, EnsureWeeklyPlanIndexes},
		{mealPrepCollectionName, EnsureMealPrepIndexes},
		{progressPhotoCollectionName, EnsureProgressPhotoIndexes},
	}

	for _, e := range ensurers {
		if err := e.ensure(ctx, db.Collection(e.collection)); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", e.collection, err)
		}
	}
	return nil
}
