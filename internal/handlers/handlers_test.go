package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mockprep/platform/internal/auth"
	"mockprep/platform/internal/feedback"
	"mockprep/platform/internal/identity"
	"mockprep/platform/internal/llm"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/prompts"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/store/sqlstore"
	"mockprep/platform/internal/testhelpers"
)

// ============================================================================
// Test Helpers
// ============================================================================

type mockProvider struct {
	content string
	err     error
	calls   int
}

func (m *mockProvider) GenerateStructured(_ context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerationResponse{Content: m.content, RequestID: req.RequestID}, nil
}

func (m *mockProvider) GetProviderName() string { return "mock" }

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

const validAssessment = `{
  "totalScore": 74,
  "categoryScores": {
    "communication": {"score": 70, "feedback": "ok"},
    "technicalKnowledge": {"score": 80, "feedback": "ok"},
    "problemSolving": {"score": 75, "feedback": "ok"},
    "culturalFit": {"score": 72, "feedback": "ok"},
    "confidence": {"score": 73, "feedback": "ok"}
  },
  "strengths": ["depth"],
  "areasForImprovement": ["pace"],
  "finalAssessment": "Good."
}`

type testApp struct {
	store    *sqlstore.Store
	provider *mockProvider
	router   *chi.Mux
	authSvc  *auth.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	s := testhelpers.NewStore(t)
	logger := zap.NewNop()

	idp, err := identity.NewLocalProvider(s, "test-secret", identity.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewLocalProvider: %v", err)
	}
	authn := auth.NewAuthenticator(idp, s, logger)
	authSvc := auth.NewService(authn, idp, s, logger)

	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager: %v", err)
	}
	provider := &mockProvider{content: validAssessment}
	gen := feedback.NewGenerator(s, provider, pm, nil, logger, time.Second)
	rec := feedback.NewReconciler(s, s, gen, logger)

	interviews := repositories.NewInterviewRepository(s)
	fbRepo := repositories.NewFeedbackRepository(s)

	authHandler := NewAuthHandler(authSvc, logger, false)
	pageHandler := NewPageHandler(interviews, fbRepo, logger)
	interviewHandler := NewInterviewHandler(interviews, fbRepo, gen, rec, logger)

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.SignUpRequest]()).Post("/api/v1/auth/sign-up", authHandler.SignUpHandler)
	r.With(middleware.ValidateRequest[*models.SignInRequest]()).Post("/api/v1/auth/sign-in", authHandler.SignInHandler)
	r.With(middleware.ValidateRequest[*models.SignInRequest]()).Post("/api/v1/auth/admin-sign-in", authHandler.AdminSignInHandler)
	r.Post("/api/v1/auth/sign-out", authHandler.SignOutHandler)
	r.Get("/api/v1/auth/me", authHandler.MeHandler)

	r.Get("/", pageHandler.HomeHandler)
	r.Get("/sign-in", pageHandler.AuthPageHandler("sign-in"))
	r.Get("/dashboard", pageHandler.DashboardHandler)
	r.Get("/take-interview", pageHandler.TakeInterviewHandler)
	r.Get("/my-feedbacks", pageHandler.MyFeedbacksHandler)
	r.Get("/admin/dashboard", pageHandler.AdminDashboardHandler)
	r.Get("/admin/feedbacks", pageHandler.AdminFeedbacksHandler)
	r.Get("/admin/create-interview", pageHandler.CreateInterviewFormHandler)
	r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/admin/create-interview", pageHandler.CreateInterviewHandler)

	r.Get("/api/v1/interviews/{id}", interviewHandler.GetInterviewHandler)
	r.Get("/api/v1/interviews/{id}/feedback", interviewHandler.GetInterviewFeedbackHandler)
	r.With(middleware.ValidateRequest[*models.GenerateFeedbackRequest]()).Post("/api/v1/interviews/{id}/feedback", interviewHandler.GenerateFeedbackHandler)
	r.Get("/api/v1/feedback/{id}", interviewHandler.GetFeedbackHandler)
	r.Post("/api/v1/feedback/{id}/finalize", interviewHandler.RetryFinalizeHandler)
	r.Get("/api/v1/admin/anomalies", interviewHandler.AnomaliesHandler)

	return &testApp{store: s, provider: provider, router: r, authSvc: authSvc}
}

// do serves one request as user; a nil user is an anonymous visitor.
func (a *testApp) do(t *testing.T, method, path string, body any, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	expectStatus(t, rec, http.StatusTemporaryRedirect)
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

var transcript = []models.TranscriptTurn{
	{Role: "interviewer", Content: "Why Go?"},
	{Role: "candidate", Content: "Simplicity and great tooling."},
}
