// internal/repository/mongo/template_repo.go
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
	templateCollectionName    = "workout_templates"
	templateDayCollectionName = "template_days"
)

// mongoTemplateRepository implements repository.TemplateRepository
type mongoTemplateRepository struct {
	templates *mongo.Collection
	days      *mongo.Collection
}

// NewMongoTemplateRepository creates a new WorkoutTemplate repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		templates: db.Collection(templateCollectionName),
		days:      db.Collection(templateDayCollectionName),
	}
}

// Create inserts a new template.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if template.UserID == primitive.NilObjectID || template.Name == "" {
		return primitive.NilObjectID, errors.New("template requires userId and name")
	}
	template.ID = primitive.NewObjectID()
	template.CreatedAt = time.Now().UTC()

	result, err := r.templates.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// CreateDay inserts one day of a template with its prescribed exercises.
func (r *mongoTemplateRepository) CreateDay(ctx context.Context, day *domain.TemplateDay) (primitive.ObjectID, error) {
	if day.TemplateID == primitive.NilObjectID || day.DayName == "" {
		return primitive.NilObjectID, errors.New("template day requires workoutTemplateId and dayName")
	}
	day.ID = primitive.NewObjectID()
	day.CreatedAt = time.Now().UTC()
	if day.Exercises == nil {
		day.Exercises = []domain.TemplateDayExercise{}
	}

	result, err := r.days.InsertOne(ctx, day)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template day ID")
	}
	return insertedID, nil
}

// GetLatest returns the most recently created template of a user.
func (r *mongoTemplateRepository) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	return r.findOne(ctx, userID, bson.D{{Key: "createdAt", Value: -1}})
}

// MaxAIVersion returns the highest aiVersion of a user's templates, 0 if none.
func (r *mongoTemplateRepository) MaxAIVersion(ctx context.Context, userID primitive.ObjectID) (int, error) {
	template, err := r.findOne(ctx, userID, bson.D{{Key: "aiVersion", Value: -1}})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return template.AIVersion, nil
}

func (r *mongoTemplateRepository) findOne(ctx context.Context, userID primitive.ObjectID, sort bson.D) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	err := r.templates.FindOne(ctx, bson.M{"userId": userID}, options.FindOne().SetSort(sort)).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetDaysByIDs returns the template days with the given IDs.
func (r *mongoTemplateRepository) GetDaysByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.TemplateDay, error) {
	if len(ids) == 0 {
		return []domain.TemplateDay{}, nil
	}
	return r.findDays(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ListDays returns the days of a template ordered by dayIndex.
func (r *mongoTemplateRepository) ListDays(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateDay, error) {
	return r.findDays(ctx, bson.M{"workoutTemplateId": templateID})
}

func (r *mongoTemplateRepository) findDays(ctx context.Context, filter bson.M) ([]domain.TemplateDay, error) {
	days := []domain.TemplateDay{}
	cursor, err := r.days.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dayIndex", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// EnsureTemplateIndexes creates necessary indexes. Call during startup.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Unique per user so concurrent applies cannot share a version
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "aiVersion", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureTemplateDayIndexes creates necessary indexes. Call during startup.
func EnsureTemplateDayIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutTemplateId", Value: 1}, {Key: "dayIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
