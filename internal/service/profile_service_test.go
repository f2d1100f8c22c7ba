package service

import (
	"context"
	"testing"

	"liftbrain/fitness-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpdateProfile(t *testing.T) {
	db := newMemDB()
	repo := memUserRepo{db}
	userID, err := repo.Create(context.Background(), &domain.User{Name: "Sam", Email: "sam@example.com", PasswordHash: "hash", ExperienceLevel: "BEGINNER"})
	require.NoError(t, err)
	svc := NewProfileService(repo)

	goal := domain.GoalRecomp
	updated, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{
		GoalFocus:       &goal,
		WorkoutsPerWeek: ptr(4),
		Goals:           []domain.Goal{{Type: "STRENGTH", TargetMetric: "Back squat 1RM", TargetValue: ptr(140.0)}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.GoalRecomp, updated.GoalFocus)
	assert.Equal(t, "BEGINNER", updated.ExperienceLevel)
	assert.Empty(t, updated.PasswordHash)

	stored, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, *stored.Schedule.WorkoutsPerWeek)
	assert.Len(t, stored.Goals, 1)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewProfileService(memUserRepo{newMemDB()})

	_, err := svc.GetProfile(context.Background(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrUserNotFound)
}
