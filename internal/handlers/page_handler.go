package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"mockprep/platform/internal/access"
	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/utils"
)

type CandidateDashboardView struct {
	Page      string             `json:"page"`
	Status    string             `json:"status"`
	User      *models.User       `json:"user"`
	Completed []models.Interview `json:"completedInterviews"`
	Available []models.Interview `json:"availableInterviews"`
}

type AdminDashboardView struct {
	Page       string             `json:"page"`
	Status     string             `json:"status"`
	User       *models.User       `json:"user"`
	Interviews []models.Interview `json:"interviews"`
	Feedback   []models.Feedback  `json:"feedback"`
}

type InterviewListView struct {
	Page       string             `json:"page"`
	Status     string             `json:"status"`
	Interviews []models.Interview `json:"interviews"`
}

type FeedbackListView struct {
	Page     string            `json:"page"`
	Status   string            `json:"status"`
	Feedback []models.Feedback `json:"feedback"`
}

type CreateInterviewView struct {
	Page   string   `json:"page"`
	Levels []string `json:"levels"`
	Types  []string `json:"types"`
}

type AuthPageView struct {
	Page string `json:"page"`
}

// PageHandler serves the page view models. The route guard has already done
// the coarse role check; each page applies its own again.
type PageHandler struct {
	interviews *repositories.InterviewRepository
	feedback   *repositories.FeedbackRepository
	logger     *zap.Logger
}

func NewPageHandler(interviews *repositories.InterviewRepository, fb *repositories.FeedbackRepository, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{interviews: interviews, feedback: fb, logger: logger}
}

// homeFor is the dashboard a recognized user lands on.
func homeFor(user *models.User) string {
	switch {
	case user.IsAdmin():
		return middleware.AdminDashboard
	case user.IsCandidate():
		return middleware.CandidateDashboard
	}
	return middleware.SignInPath
}

// requireCandidate redirects anyone who is not a candidate and reports
// whether the page may render.
func requireCandidate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if !user.IsCandidate() {
		utils.Redirect(w, r, homeForOrSignIn(user))
		return nil, false
	}
	return user, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.UserFromContext(r.Context())
	if !user.IsAdmin() {
		utils.Redirect(w, r, homeForOrSignIn(user))
		return nil, false
	}
	return user, true
}

func homeForOrSignIn(user *models.User) string {
	if user == nil {
		return middleware.SignInPath
	}
	return homeFor(user)
}

// degrade turns a failed read into an empty section. Backend outages mark
// the view unavailable; anything else is logged and treated the same way.
func (h *PageHandler) degrade(page string, err error, status *string) {
	if err == nil {
		return
	}
	*status = models.ViewStatusUnavailable
	if apperrors.KindOf(err) == apperrors.KindBackendUnavailable {
		h.logger.Warn("page data unavailable", zap.String("page", page), zap.Error(err))
		return
	}
	h.logger.Error("page read failed", zap.String("page", page), zap.Error(err))
}

func (h *PageHandler) candidateDashboard(ctx context.Context, page string, user *models.User) CandidateDashboardView {
	view := CandidateDashboardView{Page: page, Status: models.ViewStatusOK, User: user}

	completed, err := h.interviews.ListForUser(ctx, user)
	h.degrade(page, err, &view.Status)
	available, err := h.interviews.ListAvailable(ctx, user, access.DefaultAvailableLimit)
	h.degrade(page, err, &view.Status)

	view.Completed = nonNil(completed)
	view.Available = nonNil(available)
	return view
}

func (h *PageHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCandidate(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, h.candidateDashboard(r.Context(), "dashboard", user))
}

func (h *PageHandler) CandidateDashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCandidate(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, h.candidateDashboard(r.Context(), "candidate-dashboard", user))
}

func (h *PageHandler) TakeInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCandidate(w, r)
	if !ok {
		return
	}
	view := InterviewListView{Page: "take-interview", Status: models.ViewStatusOK}
	available, err := h.interviews.ListAvailable(r.Context(), user, access.DefaultAvailableLimit)
	h.degrade(view.Page, err, &view.Status)
	view.Interviews = nonNil(available)
	utils.JSON(w, http.StatusOK, view)
}

func (h *PageHandler) MyFeedbacksHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireCandidate(w, r)
	if !ok {
		return
	}
	view := FeedbackListView{Page: "my-feedbacks", Status: models.ViewStatusOK}
	fbs, err := h.feedback.ListForUser(r.Context(), user)
	h.degrade(view.Page, err, &view.Status)
	view.Feedback = nonNil(fbs)
	utils.JSON(w, http.StatusOK, view)
}

func (h *PageHandler) AdminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	view := AdminDashboardView{Page: "admin-dashboard", Status: models.ViewStatusOK, User: user}

	ivs, err := h.interviews.ListForUser(r.Context(), user)
	h.degrade(view.Page, err, &view.Status)
	fbs, err := h.feedback.ListAll(r.Context(), user)
	h.degrade(view.Page, err, &view.Status)

	view.Interviews = nonNil(ivs)
	view.Feedback = nonNil(fbs)
	utils.JSON(w, http.StatusOK, view)
}

func (h *PageHandler) AdminFeedbacksHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	view := FeedbackListView{Page: "admin-feedbacks", Status: models.ViewStatusOK}
	fbs, err := h.feedback.ListAll(r.Context(), user)
	h.degrade(view.Page, err, &view.Status)
	view.Feedback = nonNil(fbs)
	utils.JSON(w, http.StatusOK, view)
}

func (h *PageHandler) CreateInterviewFormHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	utils.JSON(w, http.StatusOK, CreateInterviewView{
		Page:   "create-interview",
		Levels: models.InterviewLevelsList(),
		Types:  models.InterviewTypesList(),
	})
}

func (h *PageHandler) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)

	iv, err := h.interviews.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("interview created", zap.String("interview_id", iv.ID), zap.String("admin_id", user.ID))
	utils.JSON(w, http.StatusCreated, iv)
}

// AuthPageHandler serves a public sign-in style page. Signed in users are
// sent to their dashboard instead.
func (h *PageHandler) AuthPageHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user := middleware.UserFromContext(r.Context()); user != nil && user.Role.Valid() {
			utils.Redirect(w, r, homeFor(user))
			return
		}
		utils.JSON(w, http.StatusOK, AuthPageView{Page: page})
	}
}

// HomeHandler sends visitors to their dashboard or to sign-in.
func (h *PageHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	utils.Redirect(w, r, homeForOrSignIn(middleware.UserFromContext(r.Context())))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
