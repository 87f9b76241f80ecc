package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockprep/platform/internal/access"
	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/feedback"
	"mockprep/platform/internal/middleware"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/utils"
)

type InterviewHandler struct {
	interviews *repositories.InterviewRepository
	feedback   *repositories.FeedbackRepository
	generator  *feedback.Generator
	reconciler *feedback.Reconciler
	logger     *zap.Logger
}

func NewInterviewHandler(
	interviews *repositories.InterviewRepository,
	fb *repositories.FeedbackRepository,
	generator *feedback.Generator,
	reconciler *feedback.Reconciler,
	logger *zap.Logger,
) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{
		interviews: interviews,
		feedback:   fb,
		generator:  generator,
		reconciler: reconciler,
		logger:     logger,
	}
}

// GetInterviewHandler returns one interview the caller may see.
func (h *InterviewHandler) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	iv, err := h.interviews.GetForUser(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, iv)
}

// GenerateFeedbackHandler scores a transcript for the interview. Admins may
// generate on behalf of a candidate by naming userId.
func (h *InterviewHandler) GenerateFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	const op = "feedback.generate"
	user := middleware.UserFromContext(r.Context())
	req := middleware.GetValidatedRequest[*models.GenerateFeedbackRequest](r)
	interviewID := chi.URLParam(r, "id")

	candidateID := user.ID
	if req.UserID != "" && req.UserID != user.ID {
		if !user.IsAdmin() {
			writeError(w, h.logger, apperrors.New(apperrors.KindForbidden, op, "cannot generate feedback for another user"))
			return
		}
		candidateID = req.UserID
	}

	iv, err := h.interviews.GetByID(r.Context(), interviewID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !access.CanGenerateFeedback(user, iv) {
		writeError(w, h.logger, apperrors.New(apperrors.KindForbidden, op, "interview is not available to you"))
		return
	}

	res, err := h.generator.Generate(r.Context(), feedback.GenerateRequest{
		InterviewID: interviewID,
		UserID:      candidateID,
		Transcript:  req.Transcript,
		FeedbackID:  req.FeedbackID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// GetInterviewFeedbackHandler returns the caller's feedback for the
// interview. Feedback the caller may not see is reported as missing.
func (h *InterviewHandler) GetInterviewFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	fb, err := h.feedback.GetByInterviewID(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if fb == nil {
		writeError(w, h.logger, apperrors.New(apperrors.KindNotFound, "feedback.by_interview", "feedback not found"))
		return
	}
	utils.JSON(w, http.StatusOK, fb)
}

func (h *InterviewHandler) GetFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	fb, err := h.feedback.GetForUser(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, fb)
}

// RetryFinalizeHandler re-applies the finalize step for a stored feedback
// document after a partial commit.
func (h *InterviewHandler) RetryFinalizeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if !user.IsAdmin() {
		writeError(w, h.logger, apperrors.New(apperrors.KindForbidden, "feedback.retry_finalize", "admin only"))
		return
	}

	feedbackID := chi.URLParam(r, "id")
	if err := h.generator.RetryFinalize(r.Context(), feedbackID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, feedback.GenerateResult{Success: true, FeedbackID: feedbackID})
}

// AnomaliesHandler lists feedback whose interview does not reflect it.
func (h *InterviewHandler) AnomaliesHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if !user.IsAdmin() {
		writeError(w, h.logger, apperrors.New(apperrors.KindForbidden, "feedback.anomalies", "admin only"))
		return
	}

	anomalies, err := h.reconciler.Scan(r.Context())
	if err != nil {
		writeError(w, h.logger, apperrors.Wrap(apperrors.KindBackendUnavailable, "feedback.anomalies", err))
		return
	}
	utils.JSON(w, http.StatusOK, models.Resp{Success: true, Data: nonNil(anomalies)})
}
