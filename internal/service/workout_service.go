package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInvalidSet          = errors.New("invalid set entry")
	ErrNoSets              = errors.New("a workout session needs at least one set")
	ErrUnknownExercise     = errors.New("exercise not found")
	ErrTemplateDayNotFound = errors.New("template day not found")
	ErrWeightOutOfRange    = errors.New("weight must be between 30 and 300 kg")
	ErrScoreOutOfRange     = errors.New("scores must be between 1 and 10")
)

const (
	minLoggedWeightKg = 30.0
	maxLoggedWeightKg = 300.0
)

// SetInput is one performed set as submitted by the client.
type SetInput struct {
	ExerciseID primitive.ObjectID
	SetNumber  int
	Reps       int
	WeightKg   *float64
	RPE        *float64
	Notes      string
	IsPR       bool
}

// CheckInInput is the optional body-state sample logged with a session.
type CheckInInput struct {
	WeightKg       *float64
	ReadinessScore *int
	AppetiteScore  *int
	SorenessScore  *int
	Notes          string
	PhotoURL       string
}

// LogSessionInput is everything needed to record a workout.
type LogSessionInput struct {
	SessionDate         time.Time
	TemplateDayID       *primitive.ObjectID
	DurationMinutes     *int
	PerceivedDifficulty *int
	Notes               string
	Sets                []SetInput
	CheckIn             *CheckInInput
}

type WorkoutService interface {
	LogSession(ctx context.Context, userID primitive.ObjectID, input LogSessionInput) (*domain.WorkoutSession, *domain.ProgressCheckIn, error)
	ListSessions(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error)
	LogWeight(ctx context.Context, userID primitive.ObjectID, weightKg float64, recordedAt *time.Time, notes string) (*domain.ProgressCheckIn, error)
}

type workoutService struct {
	sessionRepo  repository.WorkoutSessionRepository
	checkInRepo  repository.CheckInRepository
	exerciseRepo repository.ExerciseRepository
	templateRepo repository.TemplateRepository
	tx           repository.Transactor
	logger       *zap.Logger
}

func NewWorkoutService(
	sessionRepo repository.WorkoutSessionRepository,
	checkInRepo repository.CheckInRepository,
	exerciseRepo repository.ExerciseRepository,
	templateRepo repository.TemplateRepository,
	tx repository.Transactor,
	logger *zap.Logger,
) WorkoutService {
	return &workoutService{
		sessionRepo:  sessionRepo,
		checkInRepo:  checkInRepo,
		exerciseRepo: exerciseRepo,
		templateRepo: templateRepo,
		tx:           tx,
		logger:       logger,
	}
}

// LogSession stores the session with its sets and, when it carries data, the
// check-in logged alongside it. Both are written in one transaction.
func (s *workoutService) LogSession(ctx context.Context, userID primitive.ObjectID, input LogSessionInput) (*domain.WorkoutSession, *domain.ProgressCheckIn, error) {
	if err := validateSets(input.Sets); err != nil {
		return nil, nil, err
	}
	if err := s.checkReferences(ctx, userID, input); err != nil {
		return nil, nil, err
	}

	session := &domain.WorkoutSession{
		UserID:              userID,
		SessionDate:         input.SessionDate.UTC(),
		TemplateDayID:       input.TemplateDayID,
		DurationMinutes:     input.DurationMinutes,
		PerceivedDifficulty: input.PerceivedDifficulty,
		Notes:               input.Notes,
		Sets:                make([]domain.SetEntry, 0, len(input.Sets)),
	}
	for _, set := range input.Sets {
		session.Sets = append(session.Sets, domain.SetEntry{
			ExerciseID: set.ExerciseID,
			SetNumber:  set.SetNumber,
			Reps:       set.Reps,
			WeightKg:   set.WeightKg,
			RPE:        set.RPE,
			Notes:      set.Notes,
			IsPR:       set.IsPR,
		})
	}

	var checkIn *domain.ProgressCheckIn
	if input.CheckIn != nil {
		candidate := &domain.ProgressCheckIn{
			UserID:         userID,
			WeightKg:       input.CheckIn.WeightKg,
			ReadinessScore: input.CheckIn.ReadinessScore,
			AppetiteScore:  input.CheckIn.AppetiteScore,
			SorenessScore:  input.CheckIn.SorenessScore,
			Notes:          input.CheckIn.Notes,
			PhotoURL:       input.CheckIn.PhotoURL,
		}
		if candidate.HasData() {
			if err := validateScores(candidate); err != nil {
				return nil, nil, err
			}
			checkIn = candidate
		}
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		sessionID, err := s.sessionRepo.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		session.ID = sessionID

		if checkIn != nil {
			checkIn.WorkoutSessionID = &sessionID
			checkInID, err := s.checkInRepo.Create(ctx, checkIn)
			if err != nil {
				return fmt.Errorf("create check-in: %w", err)
			}
			checkIn.ID = checkInID
		}
		return nil
	})
	if err != nil {
		s.logger.Error("log workout session failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return nil, nil, err
	}
	return session, checkIn, nil
}

func validateSets(sets []SetInput) error {
	if len(sets) == 0 {
		return ErrNoSets
	}
	for i, set := range sets {
		switch {
		case set.ExerciseID == primitive.NilObjectID:
			return fmt.Errorf("%w: set %d has no exercise", ErrInvalidSet, i+1)
		case set.SetNumber <= 0:
			return fmt.Errorf("%w: set number must be positive", ErrInvalidSet)
		case set.Reps <= 0:
			return fmt.Errorf("%w: reps must be positive", ErrInvalidSet)
		case set.WeightKg != nil && *set.WeightKg < 0:
			return fmt.Errorf("%w: weight cannot be negative", ErrInvalidSet)
		case set.RPE != nil && (*set.RPE < 1 || *set.RPE > 10):
			return fmt.Errorf("%w: rpe must be between 1 and 10", ErrInvalidSet)
		}
	}
	return nil
}

func validateScores(c *domain.ProgressCheckIn) error {
	for _, score := range []*int{c.ReadinessScore, c.AppetiteScore, c.SorenessScore} {
		if score != nil && (*score < 1 || *score > 10) {
			return ErrScoreOutOfRange
		}
	}
	return nil
}

// checkReferences makes sure every exercise exists and the template day belongs to the user.
func (s *workoutService) checkReferences(ctx context.Context, userID primitive.ObjectID, input LogSessionInput) error {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, set := range input.Sets {
		if !seen[set.ExerciseID] {
			seen[set.ExerciseID] = true
			ids = append(ids, set.ExerciseID)
		}
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(exercises) != len(ids) {
		return ErrUnknownExercise
	}

	if input.TemplateDayID != nil {
		days, err := s.templateRepo.GetDaysByIDs(ctx, []primitive.ObjectID{*input.TemplateDayID})
		if err != nil {
			return err
		}
		if len(days) == 0 || days[0].UserID != userID {
			return ErrTemplateDayNotFound
		}
	}
	return nil
}

func (s *workoutService) ListSessions(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.ListBetween(ctx, userID, from, to)
}

// LogWeight records a standalone weigh-in as a check-in, optionally backdated.
func (s *workoutService) LogWeight(ctx context.Context, userID primitive.ObjectID, weightKg float64, recordedAt *time.Time, notes string) (*domain.ProgressCheckIn, error) {
	if weightKg < minLoggedWeightKg || weightKg > maxLoggedWeightKg {
		return nil, ErrWeightOutOfRange
	}
	checkIn := &domain.ProgressCheckIn{
		UserID:   userID,
		WeightKg: &weightKg,
		Notes:    notes,
	}
	if recordedAt != nil {
		checkIn.CreatedAt = recordedAt.UTC()
	}

	id, err := s.checkInRepo.Create(ctx, checkIn)
	if err != nil {
		return nil, err
	}
	checkIn.ID = id
	return checkIn, nil
}
