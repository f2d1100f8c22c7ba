package repository

import (
	"context"
	"time"

	"liftbrain/fitness-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn inside a single transaction. Repository calls made with
// the ctx passed to fn join the transaction; when fn returns an error every
// write is rolled back.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// ExerciseFilter narrows a library listing. Empty fields match everything.
type ExerciseFilter struct {
	PrimaryMuscle string
	Equipment     string
}

// ExerciseRepository defines the interface for the shared exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error) // Exact, case-sensitive match
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error) // Sorted by name
}

// WorkoutSessionRepository stores logged sessions with their embedded sets.
type WorkoutSessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.WorkoutSession, error) // Newest first
	ListBetween(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error)
}

// CheckInRepository stores progress check-ins.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.ProgressCheckIn) (primitive.ObjectID, error)
	ListRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.ProgressCheckIn, error) // Newest first
	// LatestBySessions returns the most recent check-in per session id.
	LatestBySessions(ctx context.Context, sessionIDs []primitive.ObjectID) (map[primitive.ObjectID]domain.ProgressCheckIn, error)
}

// TemplateRepository stores workout templates and their days.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	CreateDay(ctx context.Context, day *domain.TemplateDay) (primitive.ObjectID, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	MaxAIVersion(ctx context.Context, userID primitive.ObjectID) (int, error) // 0 when the user has no templates
	GetDaysByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.TemplateDay, error)
	ListDays(ctx context.Context, templateID primitive.ObjectID) ([]domain.TemplateDay, error)
}

// RecommendationRepository is the append-only audit trail of AI round-trips.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *domain.AiRecommendation) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AiRecommendation, error)
}

// WeeklyPlanRepository stores generated weekly plans and their meal preps.
type WeeklyPlanRepository interface {
	Create(ctx context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error)
	CreateMealPrep(ctx context.Context, meal *domain.MealPrep) (primitive.ObjectID, error)
	GetForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.WeeklyPlan, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WeeklyPlan, error) // Latest by weekOf
	ListMealPreps(ctx context.Context, planID primitive.ObjectID) ([]domain.MealPrep, error)
	MarkApplied(ctx context.Context, id primitive.ObjectID) error
}

// ProgressPhotoRepository stores upload metadata for progress photos.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
}
