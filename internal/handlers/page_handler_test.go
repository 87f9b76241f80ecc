package handlers

import (
	"net/http"
	"testing"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/testhelpers"
)

var (
	adminUser     = &models.User{ID: "admin-1", Name: "Admin", Role: models.RoleAdmin}
	candidateUser = &models.User{ID: "c1", Name: "Cee", Role: models.RoleCandidate}
	otherUser     = &models.User{ID: "c2", Name: "Dee", Role: models.RoleCandidate}
)

func TestDashboard_Candidate(t *testing.T) {
	app := newTestApp(t)
	done := testhelpers.SeedInterview(t, app.store, testhelpers.AssignedTo("c1"), testhelpers.Finalized(80))
	open := testhelpers.SeedInterview(t, app.store)
	testhelpers.SeedInterview(t, app.store, testhelpers.AssignedTo("c1"))

	rec := app.do(t, http.MethodGet, "/dashboard", nil, candidateUser)
	expectStatus(t, rec, http.StatusOK)

	view := decode[CandidateDashboardView](t, rec)
	if view.Status != models.ViewStatusOK {
		t.Fatalf("expected ok status, got %s", view.Status)
	}
	if len(view.Completed) != 1 || view.Completed[0].ID != done.ID {
		t.Fatalf("unexpected completed list %+v", view.Completed)
	}
	if len(view.Available) != 1 || view.Available[0].ID != open.ID {
		t.Fatalf("unexpected available list %+v", view.Available)
	}
}

func TestCandidatePages_RejectAdmins(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/dashboard", "/take-interview", "/my-feedbacks"} {
		rec := app.do(t, http.MethodGet, path, nil, adminUser)
		expectRedirect(t, rec, "/admin/dashboard")
	}
}

func TestAdminPages_RejectCandidates(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/admin/dashboard", "/admin/feedbacks", "/admin/create-interview"} {
		rec := app.do(t, http.MethodGet, path, nil, candidateUser)
		expectRedirect(t, rec, "/candidate/dashboard")
	}
}

func TestPages_WithoutUserGoToSignIn(t *testing.T) {
	app := newTestApp(t)
	expectRedirect(t, app.do(t, http.MethodGet, "/dashboard", nil, nil), "/sign-in")
	expectRedirect(t, app.do(t, http.MethodGet, "/admin/dashboard", nil, nil), "/sign-in")
	expectRedirect(t, app.do(t, http.MethodGet, "/", nil, nil), "/sign-in")
}

func TestHomeAndAuthPages_RedirectSignedInUsers(t *testing.T) {
	app := newTestApp(t)
	expectRedirect(t, app.do(t, http.MethodGet, "/", nil, adminUser), "/admin/dashboard")
	expectRedirect(t, app.do(t, http.MethodGet, "/sign-in", nil, candidateUser), "/candidate/dashboard")

	rec := app.do(t, http.MethodGet, "/sign-in", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if view := decode[AuthPageView](t, rec); view.Page != "sign-in" {
		t.Fatalf("unexpected page %q", view.Page)
	}

	odd := &models.User{ID: "x1", Role: models.Role("root")}
	expectStatus(t, app.do(t, http.MethodGet, "/sign-in", nil, odd), http.StatusOK)
}

func TestDashboard_DegradesWhenStoreFails(t *testing.T) {
	app := newTestApp(t)
	testhelpers.DropTable(t, app.store, &models.Interview{})

	rec := app.do(t, http.MethodGet, "/dashboard", nil, candidateUser)
	expectStatus(t, rec, http.StatusOK)

	view := decode[CandidateDashboardView](t, rec)
	if view.Status != models.ViewStatusUnavailable {
		t.Fatalf("expected unavailable status, got %s", view.Status)
	}
	if view.Completed == nil || view.Available == nil || len(view.Completed) != 0 || len(view.Available) != 0 {
		t.Fatalf("expected empty lists, got %+v / %+v", view.Completed, view.Available)
	}
}

func TestAdminDashboard(t *testing.T) {
	app := newTestApp(t)
	a := testhelpers.SeedInterview(t, app.store, testhelpers.AssignedTo("c1"), testhelpers.Finalized(60))
	testhelpers.SeedInterview(t, app.store)
	testhelpers.SeedFeedback(t, app.store, "fb-1", a.ID, "c1", 60)

	rec := app.do(t, http.MethodGet, "/admin/dashboard", nil, adminUser)
	expectStatus(t, rec, http.StatusOK)

	view := decode[AdminDashboardView](t, rec)
	if len(view.Interviews) != 2 || len(view.Feedback) != 1 {
		t.Fatalf("expected all interviews and feedback, got %d / %d", len(view.Interviews), len(view.Feedback))
	}
}

func TestMyFeedbacks_OwnOnly(t *testing.T) {
	app := newTestApp(t)
	a := testhelpers.SeedInterview(t, app.store)
	b := testhelpers.SeedInterview(t, app.store)
	testhelpers.SeedFeedback(t, app.store, "fb-mine", a.ID, "c1", 60)
	testhelpers.SeedFeedback(t, app.store, "fb-theirs", b.ID, "c2", 70)

	rec := app.do(t, http.MethodGet, "/my-feedbacks", nil, candidateUser)
	expectStatus(t, rec, http.StatusOK)

	view := decode[FeedbackListView](t, rec)
	if len(view.Feedback) != 1 || view.Feedback[0].ID != "fb-mine" {
		t.Fatalf("unexpected feedback %+v", view.Feedback)
	}
}

func TestCreateInterview(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/admin/create-interview", nil, adminUser)
	expectStatus(t, rec, http.StatusOK)
	if form := decode[CreateInterviewView](t, rec); len(form.Levels) == 0 || len(form.Types) == 0 {
		t.Fatalf("expected form metadata, got %+v", form)
	}

	rec = app.do(t, http.MethodPost, "/admin/create-interview", models.CreateInterviewRequest{
		Role: "Platform Engineer", Level: "senior", Type: "technical", Techstack: []string{"go", "k8s"},
	}, adminUser)
	expectStatus(t, rec, http.StatusCreated)
	iv := decode[models.Interview](t, rec)
	if iv.ID == "" || iv.UserID != adminUser.ID || iv.Finalized {
		t.Fatalf("unexpected interview %+v", iv)
	}

	rec = app.do(t, http.MethodPost, "/admin/create-interview", models.CreateInterviewRequest{Role: "x", Level: "wizard", Type: "technical"}, adminUser)
	expectStatus(t, rec, http.StatusUnprocessableEntity)
}
