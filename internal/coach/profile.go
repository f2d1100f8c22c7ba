package coach

import (
	"liftbrain/fitness-coach/internal/domain"
)

// Profile is the slice of a user the prompts talk about.
type Profile struct {
	Name              string
	GoalFocus         string
	ExperienceLevel   string
	EquipmentProfile  string
	Age               *int
	Sex               string
	BodyweightKg      *float64
	WorkoutsPerWeek   *int
	MinutesPerSession *int
	Goals             []domain.Goal
}

// ProfileFromUser maps a stored user to its prompt profile.
func ProfileFromUser(u *domain.User) Profile {
	name := u.Name
	if name == "" {
		name = u.Email
	}
	goal := ""
	if u.GoalFocus != "" {
		goal = u.GoalFocus.Label()
	}
	return Profile{
		Name:              name,
		GoalFocus:         goal,
		ExperienceLevel:   u.ExperienceLevel,
		EquipmentProfile:  u.EquipmentProfile,
		Age:               u.Age,
		Sex:               u.Sex,
		BodyweightKg:      u.BodyweightKg,
		WorkoutsPerWeek:   u.Schedule.WorkoutsPerWeek,
		MinutesPerSession: u.Schedule.MinutesPerSession,
		Goals:             u.Goals,
	}
}
