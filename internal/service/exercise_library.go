package service

import "liftbrain/fitness-coach/internal/domain"

// defaultLibrary is inserted by SeedLibrary on startup.
var defaultLibrary = []domain.Exercise{
	{Name: "Barbell Back Squat", PrimaryMuscle: "LEGS", SecondaryMuscles: []string{"GLUTES", "CORE"}, MovementPattern: "SQUAT", Equipment: "FULL_GYM", Difficulty: "HARD", DefaultSets: 4, DefaultReps: "6-8"},
	{Name: "Romanian Deadlift", PrimaryMuscle: "LEGS", SecondaryMuscles: []string{"GLUTES", "BACK"}, MovementPattern: "HINGE", Equipment: "BARBELL_ONLY", Difficulty: "HARD", DefaultSets: 3, DefaultReps: "8-10"},
	{Name: "Barbell Bench Press", PrimaryMuscle: "CHEST", SecondaryMuscles: []string{"TRICEPS", "SHOULDERS"}, MovementPattern: "PUSH_HORIZONTAL", Equipment: "BARBELL_ONLY", Difficulty: "HARD", DefaultSets: 4, DefaultReps: "5-8"},
	{Name: "Dumbbell Incline Press", PrimaryMuscle: "CHEST", SecondaryMuscles: []string{"SHOULDERS", "TRICEPS"}, MovementPattern: "PUSH_HORIZONTAL", Equipment: "DUMBBELLS_ONLY", Difficulty: "MODERATE", DefaultSets: 3, DefaultReps: "8-12"},
	{Name: "Pull-Up", PrimaryMuscle: "BACK", SecondaryMuscles: []string{"ARMS"}, MovementPattern: "PULL_VERTICAL", Equipment: "HOME_MINIMAL", Difficulty: "HARD", DefaultSets: 3, DefaultReps: "max"},
	{Name: "Seated Cable Row", PrimaryMuscle: "BACK", SecondaryMuscles: []string{"ARMS"}, MovementPattern: "PULL_HORIZONTAL", Equipment: "FULL_GYM", Difficulty: "MODERATE", DefaultSets: 3, DefaultReps: "10-12"},
	{Name: "Standing Overhead Press", PrimaryMuscle: "SHOULDERS", SecondaryMuscles: []string{"TRICEPS", "CORE"}, MovementPattern: "PUSH_VERTICAL", Equipment: "BARBELL_ONLY", Difficulty: "HARD", DefaultSets: 3, DefaultReps: "6-8"},
	{Name: "Single-Leg Romanian Deadlift", PrimaryMuscle: "GLUTES", SecondaryMuscles: []string{"LEGS", "CORE"}, MovementPattern: "HINGE", Equipment: "DUMBBELLS_ONLY", Difficulty: "MODERATE", DefaultSets: 3, DefaultReps: "10-12"},
	{Name: "Plank", PrimaryMuscle: "CORE", SecondaryMuscles: []string{"SHOULDERS"}, MovementPattern: "CORE", Equipment: "HOME_MINIMAL", Difficulty: "EASY", DefaultSets: 3, DefaultReps: "45-60s"},
	{Name: "Walking Lunge", PrimaryMuscle: "LEGS", SecondaryMuscles: []string{"GLUTES", "CORE"}, MovementPattern: "LUNGE", Equipment: "DUMBBELLS_ONLY", Difficulty: "MODERATE", DefaultSets: 3, DefaultReps: "12/leg"},
}
