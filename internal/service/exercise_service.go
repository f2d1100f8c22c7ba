package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrExerciseExists    = errors.New("an exercise with this name already exists")
	ErrExerciseNameEmpty = errors.New("exercise name is required")
)

// CreateExerciseInput describes a new library exercise. Empty classification
// fields fall back to the custom defaults.
type CreateExerciseInput struct {
	Name            string
	PrimaryMuscle   string
	MovementPattern string
	Equipment       string
	Difficulty      string
}

// ExerciseService exposes the shared exercise library.
type ExerciseService interface {
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, input CreateExerciseInput) (*domain.Exercise, error)
	// SeedLibrary inserts the default exercises that are missing and
	// returns how many were added. Existing entries are left untouched.
	SeedLibrary(ctx context.Context) (int, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	logger       *zap.Logger
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, logger *zap.Logger) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo, logger: logger}
}

func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list exercises", zap.Error(err))
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

func (s *exerciseService) CreateExercise(ctx context.Context, input CreateExerciseInput) (*domain.Exercise, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrExerciseNameEmpty
	}

	exercise := domain.NewCustomExercise(name)
	if input.PrimaryMuscle != "" {
		exercise.PrimaryMuscle = input.PrimaryMuscle
	}
	if input.MovementPattern != "" {
		exercise.MovementPattern = input.MovementPattern
	}
	if input.Equipment != "" {
		exercise.Equipment = input.Equipment
	}
	if input.Difficulty != "" {
		exercise.Difficulty = input.Difficulty
	}

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		s.logger.Error("Failed to create exercise", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("create exercise: %w", err)
	}

	s.logger.Info("Exercise added to library", zap.String("exerciseId", exercise.ID.Hex()), zap.String("name", name))
	return exercise, nil
}

func (s *exerciseService) SeedLibrary(ctx context.Context) (int, error) {
	added := 0
	for _, entry := range defaultLibrary {
		exercise := entry
		exercise.SecondaryMuscles = slices.Clone(entry.SecondaryMuscles)
		if _, err := s.exerciseRepo.Create(ctx, &exercise); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return added, fmt.Errorf("seed %q: %w", entry.Name, err)
		}
		added++
	}
	if added > 0 {
		s.logger.Info("Seeded exercise library", zap.Int("added", added))
	}
	return added, nil
}
