package service

import (
	"context"
	"errors"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileUpdate carries the settings a user may change. Nil fields are left as they are.
type ProfileUpdate struct {
	Name              *string
	GoalFocus         *domain.GoalFocus
	ExperienceLevel   *string
	EquipmentProfile  *string
	Age               *int
	Sex               *string
	BodyweightKg      *float64
	WorkoutsPerWeek   *int
	MinutesPerSession *int
	Goals             []domain.Goal // nil keeps the current goals
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.GoalFocus != nil {
		user.GoalFocus = *update.GoalFocus
	}
	if update.ExperienceLevel != nil {
		user.ExperienceLevel = *update.ExperienceLevel
	}
	if update.EquipmentProfile != nil {
		user.EquipmentProfile = *update.EquipmentProfile
	}
	if update.Sex != nil {
		user.Sex = *update.Sex
	}
	if update.Age != nil {
		user.Age = update.Age
	}
	if update.BodyweightKg != nil {
		user.BodyweightKg = update.BodyweightKg
	}
	if update.WorkoutsPerWeek != nil {
		user.Schedule.WorkoutsPerWeek = update.WorkoutsPerWeek
	}
	if update.MinutesPerSession != nil {
		user.Schedule.MinutesPerSession = update.MinutesPerSession
	}
	if update.Goals != nil {
		user.Goals = update.Goals
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
