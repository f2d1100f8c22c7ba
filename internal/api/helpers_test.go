package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"liftbrain/fitness-coach/internal/domain"
	"liftbrain/fitness-coach/internal/metrics"
	"liftbrain/fitness-coach/internal/repository"
	"liftbrain/fitness-coach/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

var testUserID = primitive.NewObjectID()

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fake services ---

type stubAuth struct{}

func (stubAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return nil, service.ErrUserAlreadyExists
}
func (stubAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, service.ErrAuthenticationFailed
}
func (stubAuth) GetJWTSecret() string { return testSecret }

type stubProfile struct {
	user   *domain.User
	err    error
	update service.ProfileUpdate
}

func (s *stubProfile) GetProfile(context.Context, primitive.ObjectID) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubProfile) UpdateProfile(_ context.Context, _ primitive.ObjectID, update service.ProfileUpdate) (*domain.User, error) {
	s.update = update
	return s.user, s.err
}

type stubWorkout struct {
	input    service.LogSessionInput
	from, to *time.Time
	err      error
}

func (s *stubWorkout) LogSession(_ context.Context, userID primitive.ObjectID, input service.LogSessionInput) (*domain.WorkoutSession, *domain.ProgressCheckIn, error) {
	s.input = input
	if s.err != nil {
		return nil, nil, s.err
	}
	return &domain.WorkoutSession{ID: primitive.NewObjectID(), UserID: userID, SessionDate: input.SessionDate}, nil, nil
}

func (s *stubWorkout) ListSessions(_ context.Context, _ primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutSession, error) {
	s.from, s.to = from, to
	return nil, s.err
}

func (s *stubWorkout) LogWeight(_ context.Context, userID primitive.ObjectID, weightKg float64, _ *time.Time, _ string) (*domain.ProgressCheckIn, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ProgressCheckIn{ID: primitive.NewObjectID(), UserID: userID, WeightKg: &weightKg}, nil
}

type stubPhoto struct {
	err error
}

func (s *stubPhoto) CreateUploadURL(context.Context, primitive.ObjectID, string, string, int64) (*service.PhotoUpload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.PhotoUpload{UploadURL: "https://upload", FileURL: "https://file", Key: "k", ExpiresIn: 900}, nil
}

// stubCoach answers every call with err when set.
type stubCoach struct {
	err      error
	opts     service.ApplyOptions
	planID   primitive.ObjectID
	current  *service.CurrentPlan
	calendar string
}

func (s *stubCoach) RunInitialProgram(context.Context, primitive.ObjectID, service.ProgramInput) (*service.ProgramResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.ProgramResult{RecommendationID: primitive.NewObjectID()}, nil
}

func (s *stubCoach) RequestAdjustment(context.Context, primitive.ObjectID, service.AdjustmentInput) (*service.AdjustmentResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.AdjustmentResult{RecommendationID: primitive.NewObjectID()}, nil
}

func (s *stubCoach) RunComplianceAnalysis(context.Context, primitive.ObjectID) (*service.ComplianceResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.ComplianceResult{RecommendationID: primitive.NewObjectID()}, nil
}

func (s *stubCoach) RunBodyCompEvaluation(context.Context, primitive.ObjectID) (*service.BodyCompResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.BodyCompResult{RecommendationID: primitive.NewObjectID()}, nil
}

func (s *stubCoach) GenerateWeeklyPlan(context.Context, primitive.ObjectID) (*service.WeeklyPlanResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.WeeklyPlanResult{WeeklyPlanID: primitive.NewObjectID(), RecommendationID: primitive.NewObjectID()}, nil
}

func (s *stubCoach) ApplyWeeklyPlan(_ context.Context, _, planID primitive.ObjectID, opts service.ApplyOptions) (*service.ApplyResult, error) {
	s.planID, s.opts = planID, opts
	if s.err != nil {
		return nil, s.err
	}
	return &service.ApplyResult{TemplateID: primitive.NewObjectID(), TemplateName: "AI Plan – Week of Jan 13", AIVersion: 1}, nil
}

func (s *stubCoach) GetCurrentPlan(context.Context, primitive.ObjectID) (*service.CurrentPlan, error) {
	return s.current, s.err
}

func (s *stubCoach) ExportCalendar(context.Context, primitive.ObjectID) (string, error) {
	return s.calendar, s.err
}

type stubExercise struct {
	err    error
	filter repository.ExerciseFilter
	input  service.CreateExerciseInput
}

func (s *stubExercise) ListExercises(_ context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	s.filter = filter
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Exercise{{ID: primitive.NewObjectID(), Name: "Plank", PrimaryMuscle: "CORE"}}, nil
}

func (s *stubExercise) CreateExercise(_ context.Context, input service.CreateExerciseInput) (*domain.Exercise, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Exercise{ID: primitive.NewObjectID(), Name: input.Name, Equipment: input.Equipment}, nil
}

func (s *stubExercise) SeedLibrary(context.Context) (int, error) { return 0, s.err }

// --- harness ---

type testServer struct {
	router   *gin.Engine
	profile  *stubProfile
	workout  *stubWorkout
	photo    *stubPhoto
	coach    *stubCoach
	exercise *stubExercise
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	m, reg := metrics.NewTestManagerAndRegistry()
	ts := &testServer{
		router:   gin.New(),
		profile:  &stubProfile{user: &domain.User{ID: testUserID, Name: "Ana", Email: "ana@example.com"}},
		workout:  &stubWorkout{},
		photo:    &stubPhoto{},
		coach:    &stubCoach{},
		exercise: &stubExercise{},
		registry: reg,
	}
	SetupRoutes(ts.router, testSecret, Services{
		Auth:     stubAuth{},
		Profile:  ts.profile,
		Workout:  ts.workout,
		Photo:    ts.photo,
		Coach:    ts.coach,
		Exercise: ts.exercise,
	}, zap.NewNop(), m, reg)
	return ts
}

func signToken(t *testing.T, uid string, expiresIn time.Duration) string {
	t.Helper()
	claims := service.Claims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// do sends an authenticated request; body may be nil, a string or any JSON value.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testUserID.Hex(), time.Hour))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
