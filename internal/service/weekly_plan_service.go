package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"liftbrain/fitness-coach/internal/ai"
	"liftbrain/fitness-coach/internal/coach"
	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPlanNotFound       = errors.New("weekly plan not found")
	ErrEmptyPlan          = errors.New("weekly plan has no scheduled workouts to apply")
	ErrPlanAlreadyApplied = errors.New("weekly plan has already been applied")
)

const templateNamePrefix = "AI Plan – "

// ApplyOptions controls re-application of a plan that was already applied.
type ApplyOptions struct {
	AllowReapply bool
}

type WeeklyPlanResult struct {
	Plan             *coach.WeeklyPlan
	WeeklyPlanID     primitive.ObjectID
	RecommendationID primitive.ObjectID
	WeekOf           time.Time
}

type ApplyResult struct {
	TemplateID   primitive.ObjectID
	TemplateName string
	AIVersion    int
}

// CurrentPlan is the latest stored plan after normalization.
type CurrentPlan struct {
	ID      primitive.ObjectID `json:"id"`
	WeekOf  time.Time          `json:"weekOf"`
	Applied bool               `json:"applied"`
	Shape   string             `json:"shape"`
	Payload coach.WeeklyPlan   `json:"payload"`
}

// GenerateWeeklyPlan runs both analyses concurrently, asks for next week's plan
// and persists the recommendation, plan and meal preps in one transaction.
func (s *coachService) GenerateWeeklyPlan(ctx context.Context, userID primitive.ObjectID) (*WeeklyPlanResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var compliance *ComplianceResult
	var bodyComp *BodyCompResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		compliance, err = s.RunComplianceAnalysis(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		bodyComp, err = s.RunBodyCompEvaluation(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	weekOf := coach.NextWeekStart(s.now().UTC())
	prompt := coach.BuildWeeklyPlanPrompt(coach.WeeklyPlanContext{
		Profile:    profile,
		WeekLabel:  coach.WeekLabel(weekOf),
		Compliance: *compliance.Report,
		BodyComp:   *bodyComp.Insight,
	})
	plan, err := ai.Complete[coach.WeeklyPlan](ctx, s.completer, ai.Request{Name: "weekly_plan", Prompt: prompt, Model: s.models.WeeklyPlan})
	if err != nil {
		s.logFailure("weekly plan completion failed", userID, err)
		return nil, err
	}

	workoutJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encode weekly plan: %w", err)
	}
	mealJSON, err := json.Marshal(plan.MealPlan)
	if err != nil {
		return nil, fmt.Errorf("encode meal plan: %w", err)
	}

	result := &WeeklyPlanResult{Plan: plan, WeekOf: weekOf}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.recordRecommendation(ctx, userID, domain.RecommendationWeeklyPlan, prompt, plan)
		if err != nil {
			return err
		}
		result.RecommendationID = rec.ID

		record := &domain.WeeklyPlan{
			UserID:           userID,
			WeekOf:           weekOf,
			WorkoutPlanJSON:  string(workoutJSON),
			MealPlanJSON:     string(mealJSON),
			RecommendationID: rec.ID,
		}
		planID, err := s.repos.WeeklyPlans.Create(ctx, record)
		if err != nil {
			return fmt.Errorf("save weekly plan: %w", err)
		}
		result.WeeklyPlanID = planID

		for i, meal := range plan.MealPlan {
			if err := s.saveMealPrep(ctx, planID, i, meal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("persist weekly plan failed", zap.String("userId", userID.Hex()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("weekly plan generated",
		zap.String("userId", userID.Hex()),
		zap.String("weeklyPlanId", result.WeeklyPlanID.Hex()),
		zap.Time("weekOf", weekOf),
		zap.Int("workoutDays", len(plan.WorkoutSchedule)),
	)
	return result, nil
}

func (s *coachService) saveMealPrep(ctx context.Context, planID primitive.ObjectID, dayIndex int, meal coach.MealDay) error {
	meals, err := json.Marshal(struct {
		RecipeIdea string `json:"recipeIdea"`
	}{meal.RecipeIdea})
	if err != nil {
		return err
	}
	macros, err := json.Marshal(meal.Macros)
	if err != nil {
		return err
	}
	_, err = s.repos.WeeklyPlans.CreateMealPrep(ctx, &domain.MealPrep{
		WeeklyPlanID:  planID,
		DayIndex:      dayIndex,
		MealsJSON:     string(meals),
		DailyCalories: meal.Calories,
		MacrosJSON:    string(macros),
	})
	if err != nil {
		return fmt.Errorf("save meal prep %d: %w", dayIndex, err)
	}
	return nil
}

// ApplyWeeklyPlan turns a stored plan into the next template version and marks it applied.
func (s *coachService) ApplyWeeklyPlan(ctx context.Context, userID, planID primitive.ObjectID, opts ApplyOptions) (*ApplyResult, error) {
	var result *ApplyResult
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		record, err := s.repos.WeeklyPlans.GetForUser(ctx, planID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if record.Applied && !opts.AllowReapply {
			return ErrPlanAlreadyApplied
		}

		preps, err := s.repos.WeeklyPlans.ListMealPreps(ctx, record.ID)
		if err != nil {
			return err
		}
		stored := coach.NormalizeStoredPlan(record, preps)
		if len(stored.Plan.WorkoutSchedule) == 0 {
			return ErrEmptyPlan
		}

		maxVersion, err := s.repos.Templates.MaxAIVersion(ctx, userID)
		if err != nil {
			return err
		}
		template := &domain.WorkoutTemplate{
			UserID:       userID,
			Name:         templateNamePrefix + stored.Plan.WeekLabel,
			Description:  stored.Plan.CoachingFocus,
			WeeklyDays:   len(stored.Plan.WorkoutSchedule),
			AIVersion:    maxVersion + 1,
			WeeklyPlanID: &record.ID,
		}
		templateID, err := s.repos.Templates.Create(ctx, template)
		if err != nil {
			return fmt.Errorf("create template: %w", err)
		}

		exercises := map[string]primitive.ObjectID{}
		for i, day := range stored.Plan.WorkoutSchedule {
			templateDay := &domain.TemplateDay{
				TemplateID: templateID,
				UserID:     userID,
				DayIndex:   i,
				DayName:    day.Day,
				FocusArea:  day.Focus,
				Exercises:  make([]domain.TemplateDayExercise, 0, len(day.KeyLifts)),
			}
			for _, lift := range day.KeyLifts {
				exerciseID, ok := exercises[lift.Name]
				if !ok {
					if exerciseID, err = s.ensureExercise(ctx, lift.Name); err != nil {
						return err
					}
					exercises[lift.Name] = exerciseID
				}
				templateDay.Exercises = append(templateDay.Exercises, domain.TemplateDayExercise{
					ExerciseID:     exerciseID,
					ExerciseName:   lift.Name,
					PrescribedSets: lift.Sets,
					PrescribedReps: lift.Reps.String(),
					TargetRPE:      lift.TargetRPE,
					Instructions:   lift.Notes,
				})
			}
			if _, err := s.repos.Templates.CreateDay(ctx, templateDay); err != nil {
				return fmt.Errorf("create template day %d: %w", i, err)
			}
		}

		if err := s.repos.WeeklyPlans.MarkApplied(ctx, record.ID); err != nil {
			return fmt.Errorf("mark plan applied: %w", err)
		}
		result = &ApplyResult{TemplateID: templateID, TemplateName: template.Name, AIVersion: template.AIVersion}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("weekly plan applied",
		zap.String("userId", userID.Hex()),
		zap.String("weeklyPlanId", planID.Hex()),
		zap.String("templateId", result.TemplateID.Hex()),
		zap.Int("aiVersion", result.AIVersion),
	)
	return result, nil
}

// ensureExercise finds an exercise by exact name or creates a custom one.
func (s *coachService) ensureExercise(ctx context.Context, name string) (primitive.ObjectID, error) {
	existing, err := s.repos.Exercises.GetByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, err
	}

	// A concurrent insert of the same name aborts the transaction; the
	// transactor's retry then finds the existing row.
	id, err := s.repos.Exercises.Create(ctx, domain.NewCustomExercise(name))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("create exercise %q: %w", name, err)
	}
	return id, nil
}

// GetCurrentPlan returns the latest plan by week, or nil when the user has none.
func (s *coachService) GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (*CurrentPlan, error) {
	record, err := s.repos.WeeklyPlans.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	preps, err := s.repos.WeeklyPlans.ListMealPreps(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	stored := coach.NormalizeStoredPlan(record, preps)
	if stored.Shape == coach.UnavailableShape {
		s.logger.Warn("stored weekly plan could not be decoded", zap.String("weeklyPlanId", record.ID.Hex()))
	}
	return &CurrentPlan{
		ID:      record.ID,
		WeekOf:  record.WeekOf,
		Applied: record.Applied,
		Shape:   stored.Shape.String(),
		Payload: stored.Plan,
	}, nil
}

// ExportCalendar renders the current plan as iCalendar text.
func (s *coachService) ExportCalendar(ctx context.Context, userID primitive.ObjectID) (string, error) {
	current, err := s.GetCurrentPlan(ctx, userID)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", ErrPlanNotFound
	}
	return coach.BuildPlanCalendar(&current.Payload, current.WeekOf), nil
}
