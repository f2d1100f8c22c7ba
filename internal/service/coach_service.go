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
)

const (
	baselineSessionWindow = 20
	adjustmentLookback    = 28 * 24 * time.Hour
)

// CoachRepositories groups the stores the coach pipeline reads and writes.
type CoachRepositories struct {
	Users           repository.UserRepository
	Sessions        repository.WorkoutSessionRepository
	CheckIns        repository.CheckInRepository
	Exercises       repository.ExerciseRepository
	Templates       repository.TemplateRepository
	Recommendations repository.RecommendationRepository
	WeeklyPlans     repository.WeeklyPlanRepository
}

// CoachModels selects the model per analysis. Empty falls back to the client default.
type CoachModels struct {
	Program    string
	Adjustment string
	Compliance string
	BodyComp   string
	WeeklyPlan string
}

type ProgramInput struct {
	Constraints []string
}

type AdjustmentInput struct {
	Issues      []string
	Constraints []string
}

type ProgramResult struct {
	Plan             *coach.ProgramPlan
	RecommendationID primitive.ObjectID
}

type AdjustmentResult struct {
	Adjustment       *coach.AdjustmentPlan
	RecommendationID primitive.ObjectID
}

type ComplianceResult struct {
	Report           *coach.ComplianceReport
	RecommendationID primitive.ObjectID
}

type BodyCompResult struct {
	Insight          *coach.BodyCompInsight
	RecommendationID primitive.ObjectID
}

// CoachService runs the AI analyses and manages weekly plans.
type CoachService interface {
	RunInitialProgram(ctx context.Context, userID primitive.ObjectID, input ProgramInput) (*ProgramResult, error)
	RequestAdjustment(ctx context.Context, userID primitive.ObjectID, input AdjustmentInput) (*AdjustmentResult, error)
	RunComplianceAnalysis(ctx context.Context, userID primitive.ObjectID) (*ComplianceResult, error)
	RunBodyCompEvaluation(ctx context.Context, userID primitive.ObjectID) (*BodyCompResult, error)

	GenerateWeeklyPlan(ctx context.Context, userID primitive.ObjectID) (*WeeklyPlanResult, error)
	ApplyWeeklyPlan(ctx context.Context, userID, planID primitive.ObjectID, opts ApplyOptions) (*ApplyResult, error)
	GetCurrentPlan(ctx context.Context, userID primitive.ObjectID) (*CurrentPlan, error)
	ExportCalendar(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type coachService struct {
	repos     CoachRepositories
	tx        repository.Transactor
	completer ai.Completer
	models    CoachModels
	logger    *zap.Logger
	now       func() time.Time
}

func NewCoachService(repos CoachRepositories, tx repository.Transactor, completer ai.Completer, models CoachModels, logger *zap.Logger) CoachService {
	return &coachService{
		repos:     repos,
		tx:        tx,
		completer: completer,
		models:    models,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *coachService) profile(ctx context.Context, userID primitive.ObjectID) (coach.Profile, error) {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return coach.Profile{}, ErrUserNotFound
		}
		return coach.Profile{}, err
	}
	return coach.ProfileFromUser(user), nil
}

// exerciseNames resolves the exercise ids referenced by the sessions' sets.
func (s *coachService) exerciseNames(ctx context.Context, sessions []domain.WorkoutSession) (map[primitive.ObjectID]string, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, session := range sessions {
		for _, set := range session.Sets {
			if !seen[set.ExerciseID] {
				seen[set.ExerciseID] = true
				ids = append(ids, set.ExerciseID)
			}
		}
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	exercises, err := s.repos.Exercises.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

// recordRecommendation stores the validated payload with its prompt.
func (s *coachService) recordRecommendation(ctx context.Context, userID primitive.ObjectID, kind domain.RecommendationType, prompt string, payload any) (*domain.AiRecommendation, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	rec := &domain.AiRecommendation{
		UserID:          userID,
		Type:            kind,
		PromptSnapshot:  prompt,
		ResponsePayload: string(raw),
	}
	id, err := s.repos.Recommendations.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save %s recommendation: %w", kind, err)
	}
	rec.ID = id
	return rec, nil
}

func (s *coachService) logFailure(msg string, userID primitive.ObjectID, err error) {
	s.logger.Warn(msg, zap.String("userId", userID.Hex()), zap.Error(err))
}

// RunInitialProgram designs a starting program from the profile and any logged lifts.
func (s *coachService) RunInitialProgram(ctx context.Context, userID primitive.ObjectID, input ProgramInput) (*ProgramResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repos.Sessions.ListRecent(ctx, userID, baselineSessionWindow)
	if err != nil {
		return nil, err
	}
	names, err := s.exerciseNames(ctx, sessions)
	if err != nil {
		return nil, err
	}

	prompt := coach.BuildInitialProgramPrompt(coach.ProgramContext{
		Profile:       profile,
		BaselineLifts: coach.BaselineLifts(sessions, names),
		Constraints:   input.Constraints,
	})
	plan, err := ai.Complete[coach.ProgramPlan](ctx, s.completer, ai.Request{Name: "program", Prompt: prompt, Model: s.models.Program})
	if err != nil {
		s.logFailure("initial program completion failed", userID, err)
		return nil, err
	}

	rec, err := s.recordRecommendation(ctx, userID, domain.RecommendationInitial, prompt, plan)
	if err != nil {
		return nil, err
	}
	return &ProgramResult{Plan: plan, RecommendationID: rec.ID}, nil
}

// RequestAdjustment reviews the active template against the last four weeks of training.
func (s *coachService) RequestAdjustment(ctx context.Context, userID primitive.ObjectID, input AdjustmentInput) (*AdjustmentResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var template *domain.WorkoutTemplate
	var days []domain.TemplateDay
	template, err = s.repos.Templates.GetLatest(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		template = nil
	case err != nil:
		return nil, err
	default:
		if days, err = s.repos.Templates.ListDays(ctx, template.ID); err != nil {
			return nil, err
		}
	}

	from := s.now().Add(-adjustmentLookback)
	sessions, err := s.repos.Sessions.ListBetween(ctx, userID, &from, nil)
	if err != nil {
		return nil, err
	}
	names, err := s.exerciseNames(ctx, sessions)
	if err != nil {
		return nil, err
	}

	prompt := coach.BuildAdjustmentPrompt(coach.AdjustmentContext{
		Profile:     profile,
		CurrentPlan: coach.DescribeTemplate(template, days),
		RecentStats: coach.WeeklyTrainingStats(sessions, names),
		Issues:      input.Issues,
		Constraints: input.Constraints,
	})
	adjustment, err := ai.Complete[coach.AdjustmentPlan](ctx, s.completer, ai.Request{Name: "adjustment", Prompt: prompt, Model: s.models.Adjustment})
	if err != nil {
		s.logFailure("adjustment completion failed", userID, err)
		return nil, err
	}

	rec, err := s.recordRecommendation(ctx, userID, domain.RecommendationAdjustment, prompt, adjustment)
	if err != nil {
		return nil, err
	}
	return &AdjustmentResult{Adjustment: adjustment, RecommendationID: rec.ID}, nil
}

// RunComplianceAnalysis compares the last sessions against what was prescribed.
func (s *coachService) RunComplianceAnalysis(ctx context.Context, userID primitive.ObjectID) (*ComplianceResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.complianceRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	complianceCtx, err := coach.BuildComplianceContext(profile, records)
	if err != nil {
		return nil, err
	}

	prompt := coach.BuildCompliancePrompt(complianceCtx)
	report, err := ai.Complete[coach.ComplianceReport](ctx, s.completer, ai.Request{Name: "compliance", Prompt: prompt, Model: s.models.Compliance})
	if err != nil {
		s.logFailure("compliance completion failed", userID, err)
		return nil, err
	}

	rec, err := s.recordRecommendation(ctx, userID, domain.RecommendationComplianceReview, prompt, report)
	if err != nil {
		return nil, err
	}
	return &ComplianceResult{Report: report, RecommendationID: rec.ID}, nil
}

// complianceRecords joins the latest sessions with their template day, exercise names and check-in.
func (s *coachService) complianceRecords(ctx context.Context, userID primitive.ObjectID) ([]coach.SessionRecord, error) {
	sessions, err := s.repos.Sessions.ListRecent(ctx, userID, coach.ComplianceWindow)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	names, err := s.exerciseNames(ctx, sessions)
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]primitive.ObjectID, 0, len(sessions))
	var dayIDs []primitive.ObjectID
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
		if session.TemplateDayID != nil {
			dayIDs = append(dayIDs, *session.TemplateDayID)
		}
	}

	daysByID := map[primitive.ObjectID]domain.TemplateDay{}
	if len(dayIDs) > 0 {
		days, err := s.repos.Templates.GetDaysByIDs(ctx, dayIDs)
		if err != nil {
			return nil, err
		}
		for _, d := range days {
			daysByID[d.ID] = d
		}
	}

	checkIns, err := s.repos.CheckIns.LatestBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	records := make([]coach.SessionRecord, 0, len(sessions))
	for _, session := range sessions {
		rec := coach.SessionRecord{Session: session, ExerciseNames: names}
		if session.TemplateDayID != nil {
			if day, ok := daysByID[*session.TemplateDayID]; ok {
				rec.Day = &day
			}
		}
		if checkIn, ok := checkIns[session.ID]; ok {
			rec.CheckIn = &checkIn
		}
		records = append(records, rec)
	}
	return records, nil
}

// RunBodyCompEvaluation reads the latest check-ins and asks for a body-composition verdict.
func (s *coachService) RunBodyCompEvaluation(ctx context.Context, userID primitive.ObjectID) (*BodyCompResult, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	checkIns, err := s.repos.CheckIns.ListRecent(ctx, userID, coach.BodyCompWindow)
	if err != nil {
		return nil, err
	}
	bodyCompCtx, err := coach.BuildBodyCompContext(profile, checkIns)
	if err != nil {
		return nil, err
	}

	prompt := coach.BuildBodyCompPrompt(bodyCompCtx)
	insight, err := ai.Complete[coach.BodyCompInsight](ctx, s.completer, ai.Request{Name: "body_comp", Prompt: prompt, Model: s.models.BodyComp})
	if err != nil {
		s.logFailure("body-comp completion failed", userID, err)
		return nil, err
	}

	rec, err := s.recordRecommendation(ctx, userID, domain.RecommendationBodyComp, prompt, insight)
	if err != nil {
		return nil, err
	}
	return &BodyCompResult{Insight: insight, RecommendationID: rec.ID}, nil
}
