package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/ai"
	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errInjected = errors.New("injected failure")

// memDB backs every fake repository. failOn names a method that returns errInjected.
type memDB struct {
	mu        sync.Mutex
	users     []domain.User
	exercises []domain.Exercise
	sessions  []domain.WorkoutSession
	checkIns  []domain.ProgressCheckIn
	templates []domain.WorkoutTemplate
	days      []domain.TemplateDay
	recs      []domain.AiRecommendation
	plans     []domain.WeeklyPlan
	preps     []domain.MealPrep
	photos    []domain.ProgressPhoto
	failOn    string
	clock     time.Time
}

func newMemDB() *memDB {
	return &memDB{clock: time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)}
}

// tick returns strictly increasing timestamps so sorts on createdAt are stable.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) fail(op string) error {
	if db.failOn == op {
		return errInjected
	}
	return nil
}

type memSnapshot struct {
	users     []domain.User
	exercises []domain.Exercise
	sessions  []domain.WorkoutSession
	checkIns  []domain.ProgressCheckIn
	templates []domain.WorkoutTemplate
	days      []domain.TemplateDay
	recs      []domain.AiRecommendation
	plans     []domain.WeeklyPlan
	preps     []domain.MealPrep
	photos    []domain.ProgressPhoto
}

// memTransactor restores the pre-transaction state when fn fails.
type memTransactor struct {
	db *memDB
}

func (t memTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.mu.Lock()
	snap := memSnapshot{
		users:     slices.Clone(t.db.users),
		exercises: slices.Clone(t.db.exercises),
		sessions:  slices.Clone(t.db.sessions),
		checkIns:  slices.Clone(t.db.checkIns),
		templates: slices.Clone(t.db.templates),
		days:      slices.Clone(t.db.days),
		recs:      slices.Clone(t.db.recs),
		plans:     slices.Clone(t.db.plans),
		preps:     slices.Clone(t.db.preps),
		photos:    slices.Clone(t.db.photos),
	}
	t.db.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.db.mu.Lock()
		t.db.users, t.db.exercises, t.db.sessions = snap.users, snap.exercises, snap.sessions
		t.db.checkIns, t.db.templates, t.db.days = snap.checkIns, snap.templates, snap.days
		t.db.recs, t.db.plans, t.db.preps, t.db.photos = snap.recs, snap.plans, snap.preps, snap.photos
		t.db.mu.Unlock()
		return err
	}
	return nil
}

// --- users ---

type memUserRepo struct{ db *memDB }

func (r memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = r.db.tick()
	r.db.users = append(r.db.users, *user)
	return user.ID, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.users {
		if r.db.users[i].ID == user.ID {
			hash := r.db.users[i].PasswordHash
			r.db.users[i] = *user
			r.db.users[i].PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- exercises ---

type memExerciseRepo struct{ db *memDB }

func (r memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Exercises.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	for _, e := range r.db.exercises {
		if e.Name == exercise.Name {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	exercise.ID = primitive.NewObjectID()
	r.db.exercises = append(r.db.exercises, *exercise)
	return exercise.ID, nil
}

func (r memExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.exercises {
		if e.Name == name {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.Exercise{}
	for _, e := range r.db.exercises {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memExerciseRepo) List(_ context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Exercises.List"); err != nil {
		return nil, err
	}
	out := []domain.Exercise{}
	for _, e := range r.db.exercises {
		if filter.PrimaryMuscle != "" && e.PrimaryMuscle != filter.PrimaryMuscle {
			continue
		}
		if filter.Equipment != "" && e.Equipment != filter.Equipment {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- sessions ---

type memSessionRepo struct{ db *memDB }

func (r memSessionRepo) Create(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Sessions.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = r.db.tick()
	r.db.sessions = append(r.db.sessions, *session)
	return session.ID, nil
}

func (r memSessionRepo) sorted(userID primitive.ObjectID) []domain.WorkoutSession {
	out := []domain.WorkoutSession{}
	for _, s := range r.db.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SessionDate.After(out[j].SessionDate) })
	return out
}

func (r memSessionRepo) ListRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := r.sorted(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memSessionRepo) ListBetween(_ context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.WorkoutSession{}
	for _, s := range r.sorted(userID) {
		if from != nil && s.SessionDate.Before(*from) {
			continue
		}
		if to != nil && s.SessionDate.After(*to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// --- check-ins ---

type memCheckInRepo struct{ db *memDB }

func (r memCheckInRepo) Create(_ context.Context, checkIn *domain.ProgressCheckIn) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("CheckIns.Create"); err != nil {
		return primitive.NilObjectID, err
	}
	checkIn.ID = primitive.NewObjectID()
	if checkIn.CreatedAt.IsZero() {
		checkIn.CreatedAt = r.db.tick()
	}
	r.db.checkIns = append(r.db.checkIns, *checkIn)
	return checkIn.ID, nil
}

func (r memCheckInRepo) ListRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.ProgressCheckIn, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.ProgressCheckIn{}
	for _, c := range r.db.checkIns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memCheckInRepo) LatestBySessions(_ context.Context, sessionIDs []primitive.ObjectID) (map[primitive.ObjectID]domain.ProgressCheckIn, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	latest := map[primitive.ObjectID]domain.ProgressCheckIn{}
	for _, c := range r.db.checkIns {
		if c.WorkoutSessionID == nil || !slices.Contains(sessionIDs, *c.WorkoutSessionID) {
			continue
		}
		if cur, ok := latest[*c.WorkoutSessionID]; !ok || c.CreatedAt.After(cur.CreatedAt) {
			latest[*c.WorkoutSessionID] = c
		}
	}
	return latest, nil
}

// --- templates ---

type memTemplateRepo struct{ db *memDB }

func (r memTemplateRepo) Create(_ context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.templates {
		if t.UserID == template.UserID && t.AIVersion == template.AIVersion {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	template.ID = primitive.NewObjectID()
	template.CreatedAt = r.db.tick()
	r.db.templates = append(r.db.templates, *template)
	return template.ID, nil
}

func (r memTemplateRepo) CreateDay(_ context.Context, day *domain.TemplateDay) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("Templates.CreateDay"); err != nil {
		return primitive.NilObjectID, err
	}
	day.ID = primitive.NewObjectID()
	day.CreatedAt = r.db.tick()
	r.db.days = append(r.db.days, *day)
	return day.ID, nil
}

func (r memTemplateRepo) GetLatest(_ context.Context, userID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var latest *domain.WorkoutTemplate
	for i := range r.db.templates {
		t := r.db.templates[i]
		if t.UserID == userID && (latest == nil || t.CreatedAt.After(latest.CreatedAt)) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r memTemplateRepo) MaxAIVersion(_ context.Context, userID primitive.ObjectID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	maxVersion := 0
	for _, t := range r.db.templates {
		if t.UserID == userID && t.AIVersion > maxVersion {
			maxVersion = t.AIVersion
		}
	}
	return maxVersion, nil
}

func (r memTemplateRepo) GetDaysByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.TemplateDay, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.TemplateDay{}
	for _, d := range r.db.days {
		if slices.Contains(ids, d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memTemplateRepo) ListDays(_ context.Context, templateID primitive.ObjectID) ([]domain.TemplateDay, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.TemplateDay{}
	for _, d := range r.db.days {
		if d.TemplateID == templateID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

// --- recommendations ---

type memRecommendationRepo struct{ db *memDB }

func (r memRecommendationRepo) Create(_ context.Context, rec *domain.AiRecommendation) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = r.db.tick()
	r.db.recs = append(r.db.recs, *rec)
	return rec.ID, nil
}

func (r memRecommendationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AiRecommendation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rec := range r.db.recs {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- weekly plans ---

type memWeeklyPlanRepo struct{ db *memDB }

func (r memWeeklyPlanRepo) Create(_ context.Context, plan *domain.WeeklyPlan) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.Applied = false
	plan.CreatedAt = r.db.tick()
	r.db.plans = append(r.db.plans, *plan)
	return plan.ID, nil
}

func (r memWeeklyPlanRepo) CreateMealPrep(_ context.Context, meal *domain.MealPrep) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("WeeklyPlans.CreateMealPrep"); err != nil {
		return primitive.NilObjectID, err
	}
	meal.ID = primitive.NewObjectID()
	r.db.preps = append(r.db.preps, *meal)
	return meal.ID, nil
}

func (r memWeeklyPlanRepo) GetForUser(_ context.Context, id, userID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.plans {
		if p.ID == id && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memWeeklyPlanRepo) GetLatest(_ context.Context, userID primitive.ObjectID) (*domain.WeeklyPlan, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var latest *domain.WeeklyPlan
	for i := range r.db.plans {
		p := r.db.plans[i]
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.WeekOf.After(latest.WeekOf) ||
			(p.WeekOf.Equal(latest.WeekOf) && p.CreatedAt.After(latest.CreatedAt)) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r memWeeklyPlanRepo) ListMealPreps(_ context.Context, planID primitive.ObjectID) ([]domain.MealPrep, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []domain.MealPrep{}
	for _, m := range r.db.preps {
		if m.WeeklyPlanID == planID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

func (r memWeeklyPlanRepo) MarkApplied(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("WeeklyPlans.MarkApplied"); err != nil {
		return err
	}
	for i := range r.db.plans {
		if r.db.plans[i].ID == id {
			r.db.plans[i].Applied = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- progress photos ---

type memPhotoRepo struct{ db *memDB }

func (r memPhotoRepo) Create(_ context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	photo.ID = primitive.NewObjectID()
	photo.CreatedAt = r.db.tick()
	r.db.photos = append(r.db.photos, *photo)
	return photo.ID, nil
}

// fakeCompleter answers by request name and records every request it saw.
type fakeCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	requests  []ai.Request
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err, ok := f.errs[req.Name]; ok {
		return "", err
	}
	return f.responses[req.Name], nil
}

func (f *fakeCompleter) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Name == name {
			n++
		}
	}
	return n
}

func (f *fakeCompleter) lastPrompt(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Name == name {
			return f.requests[i].Prompt
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }
