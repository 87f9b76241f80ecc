// Package feedback scores completed interviews with the configured model and
// persists the result together with the interview's finalized state.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockprep/platform/internal/access"
	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/events"
	"mockprep/platform/internal/llm"
	"mockprep/platform/internal/metrics"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/prompts"
	"mockprep/platform/internal/store"
)

const DefaultTimeout = 60 * time.Second

const unknownSnapshot = "Unknown"

// Store is the subset of the document store the generator writes through.
type Store interface {
	store.UserStore
	store.InterviewStore
	store.FeedbackStore
}

type GenerateRequest struct {
	InterviewID string
	UserID      string
	Transcript  []models.TranscriptTurn
	FeedbackID  string
}

type GenerateResult struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedbackId,omitempty"`
}

type promptData struct {
	Role       string
	Level      string
	Techstack  []string
	Transcript string
}

type Generator struct {
	store     Store
	provider  llm.Provider
	prompts   prompts.PromptProvider
	publisher events.Publisher
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewGenerator(s Store, provider llm.Provider, pb prompts.PromptProvider, publisher events.Publisher, logger *zap.Logger, timeout time.Duration) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{
		store:     s,
		provider:  provider,
		prompts:   pb,
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate scores the transcript, then writes the feedback and finalizes the
// interview. Nothing is written unless the model produced a valid
// assessment.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	const op = "feedback.generate"

	// the caller going away must not abandon a model call or a commit
	ctx = context.WithoutCancel(ctx)

	if len(req.Transcript) == 0 {
		metrics.RecordGeneration(metrics.OutcomeInvalid)
		return nil, apperrors.New(apperrors.KindValidationFailure, op, "transcript is empty")
	}

	user, err := g.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, g.lookupFailure(op, "user", err)
	}
	interview, err := g.store.GetInterview(ctx, req.InterviewID)
	if err != nil {
		return nil, g.lookupFailure(op, "interview", err)
	}
	// feedback always belongs to the interview's assignee once there is one
	if interview.AssignedTo != "" && interview.AssignedTo != user.ID {
		metrics.RecordGeneration(metrics.OutcomeInvalid)
		return nil, apperrors.New(apperrors.KindForbidden, op, "interview is assigned to another candidate")
	}

	prompt, err := g.prompts.BuildPrompt("feedback", "strict", promptData{
		Role:       interview.Role,
		Level:      interview.Level,
		Techstack:  interview.Techstack,
		Transcript: formatTranscript(req.Transcript),
	})
	if err != nil {
		g.logger.Error("Failed to build prompt", zap.Error(err), zap.String("interview_id", interview.ID))
		metrics.RecordGeneration(metrics.OutcomeModelError)
		return nil, apperrors.Wrap(apperrors.KindInternal, op, err)
	}

	assessment, err := g.assess(ctx, interview.ID, prompt)
	if err != nil {
		return nil, err
	}

	feedbackID, err := g.resolveFeedbackID(ctx, req.FeedbackID, interview.ID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidationFailure {
			metrics.RecordGeneration(metrics.OutcomeInvalid)
		} else {
			metrics.RecordGeneration(metrics.OutcomeStoreError)
		}
		return nil, err
	}

	fb := &models.Feedback{
		ID:                  feedbackID,
		InterviewID:         interview.ID,
		UserID:              user.ID,
		CandidateName:       orUnknown(user.Name),
		CandidateEmail:      orUnknown(user.Email),
		InterviewRole:       orUnknown(interview.Role),
		TotalScore:          assessment.TotalScore,
		CategoryScores:      assessment.Categories,
		Strengths:           assessment.Strengths,
		AreasForImprovement: assessment.AreasForImprovement,
		FinalAssessment:     assessment.FinalAssessment,
		CreatedAt:           g.now(),
	}

	if err := g.commit(ctx, fb); err != nil {
		return nil, err
	}

	metrics.RecordGeneration(metrics.OutcomeSuccess)
	g.logger.Info("Feedback generated",
		zap.String("feedback_id", fb.ID),
		zap.String("interview_id", fb.InterviewID),
		zap.String("user_id", fb.UserID),
		zap.Int("total_score", fb.TotalScore))

	g.publish(ctx, fb)
	return &GenerateResult{Success: true, FeedbackID: fb.ID}, nil
}

// HandleInterviewCompleted adapts Generate to the interview event subscriber.
// The event's user is held to the same rules as a candidate calling the API.
func (g *Generator) HandleInterviewCompleted(ctx context.Context, ev events.InterviewCompletedEvent) error {
	const op = "feedback.interview_completed"

	user, err := g.store.GetUser(ctx, ev.UserID)
	if err != nil {
		return g.lookupFailure(op, "user", err)
	}
	interview, err := g.store.GetInterview(ctx, ev.InterviewID)
	if err != nil {
		return g.lookupFailure(op, "interview", err)
	}
	if !access.CanGenerateFeedback(user, interview) {
		return apperrors.New(apperrors.KindForbidden, op, "interview is not available to the event's user")
	}

	_, err = g.Generate(ctx, GenerateRequest{
		InterviewID: ev.InterviewID,
		UserID:      ev.UserID,
		Transcript:  ev.Transcript,
		FeedbackID:  ev.FeedbackID,
	})
	return err
}

// RetryFinalize re-applies the finalize step from a feedback document that is
// already stored. The model is not called.
func (g *Generator) RetryFinalize(ctx context.Context, feedbackID string) error {
	const op = "feedback.retry_finalize"

	fb, err := g.store.GetFeedback(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.KindNotFound, op, "feedback not found")
		}
		return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
	}

	if err := g.store.MarkInterviewFinalized(ctx, fb.InterviewID, fb.TotalScore); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.KindNotFound, op, "interview not found")
		}
		return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
	}
	if err := g.store.ClaimInterview(ctx, fb.InterviewID, fb.UserID); err != nil {
		return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
	}

	g.logger.Info("Interview finalize re-applied",
		zap.String("feedback_id", fb.ID),
		zap.String("interview_id", fb.InterviewID),
		zap.Int("total_score", fb.TotalScore))
	g.publish(ctx, fb)
	return nil
}

func (g *Generator) assess(ctx context.Context, interviewID string, prompt *prompts.Prompt) (*Assessment, error) {
	const op = "feedback.generate"

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	requestID := uuid.New().String()
	start := time.Now()
	resp, err := g.provider.GenerateStructured(callCtx, &llm.GenerationRequest{
		System:    prompt.System,
		Prompt:    prompt.User,
		Schema:    AssessmentSchema(),
		RequestID: requestID,
	})
	metrics.ObserveModelCall(g.provider.GetProviderName(), time.Since(start))
	if err != nil {
		code := llm.CodeOf(err)
		if code == "" {
			code = llm.ClassifyCallError(callCtx, err, false)
		}
		g.logger.Error("Scoring model call failed",
			zap.Error(err),
			zap.String("interview_id", interviewID),
			zap.String("request_id", requestID),
			zap.String("code", code))
		metrics.RecordGeneration(metrics.OutcomeModelError)
		msg := "scoring model unavailable"
		if code == llm.ErrCodeTimeout {
			msg = "scoring model timed out"
		}
		return nil, apperrors.Wrapf(apperrors.KindBackendUnavailable, op, err, "%s", msg)
	}

	assessment, err := ParseAssessment(resp.Content)
	if err != nil {
		g.logger.Warn("Rejected model assessment",
			zap.Error(err),
			zap.String("interview_id", interviewID),
			zap.String("request_id", requestID),
			zap.String("model", resp.Metadata.Model))
		metrics.RecordGeneration(metrics.OutcomeInvalid)
		return nil, apperrors.Wrapf(apperrors.KindValidationFailure, op, err, "model returned an invalid assessment")
	}
	return assessment, nil
}

// resolveFeedbackID keeps one feedback document per interview: a supplied id
// is overwritten, otherwise the interview's existing document is reused.
func (g *Generator) resolveFeedbackID(ctx context.Context, supplied, interviewID string) (string, error) {
	const op = "feedback.generate"

	if supplied != "" {
		existing, err := g.store.GetFeedback(ctx, supplied)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return supplied, nil
		case err != nil:
			return "", apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
		case existing.InterviewID != interviewID:
			return "", apperrors.New(apperrors.KindValidationFailure, op, "feedback belongs to a different interview")
		}
		return supplied, nil
	}

	found, err := g.store.FindFeedback(ctx, store.Query{}.Where(store.FieldInterviewID, store.OpEq, interviewID).WithLimit(1))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
	}
	if len(found) > 0 {
		return found[0].ID, nil
	}
	return uuid.New().String(), nil
}

func (g *Generator) commit(ctx context.Context, fb *models.Feedback) error {
	const op = "feedback.commit"

	err := g.store.CommitFeedback(ctx, fb)
	if err == nil {
		return nil
	}

	var partial *store.PartialCommitError
	switch {
	case errors.As(err, &partial):
		g.logger.Error("Feedback commit only partially applied",
			zap.String("feedback_id", fb.ID),
			zap.String("interview_id", fb.InterviewID),
			zap.Bool("feedback_written", partial.FeedbackWritten),
			zap.Bool("interview_finalized", partial.InterviewFinalized),
			zap.Error(partial.Err))
		metrics.RecordGeneration(metrics.OutcomePartialCommit)
		return apperrors.Wrapf(apperrors.KindPartialCommit, op, err, "feedback %s saved but interview not finalized", fb.ID)
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordGeneration(metrics.OutcomeNotFound)
		return apperrors.New(apperrors.KindNotFound, op, "interview not found")
	case errors.Is(err, store.ErrConflict):
		metrics.RecordGeneration(metrics.OutcomeInvalid)
		return apperrors.Wrapf(apperrors.KindValidationFailure, op, err, "interview already has a different feedback document")
	}

	g.logger.Error("Feedback commit failed", zap.String("feedback_id", fb.ID), zap.Error(err))
	metrics.RecordGeneration(metrics.OutcomeStoreError)
	return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
}

func (g *Generator) lookupFailure(op, what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordGeneration(metrics.OutcomeNotFound)
		return apperrors.New(apperrors.KindNotFound, op, what+" not found")
	}
	metrics.RecordGeneration(metrics.OutcomeStoreError)
	return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
}

// publish failures are logged only; the commit already happened.
func (g *Generator) publish(ctx context.Context, fb *models.Feedback) {
	ev := events.FeedbackFinalizedEvent{
		FeedbackID:  fb.ID,
		InterviewID: fb.InterviewID,
		UserID:      fb.UserID,
		TotalScore:  fb.TotalScore,
		FinalizedAt: g.now(),
	}
	if err := g.publisher.PublishFeedbackFinalized(ctx, ev); err != nil {
		g.logger.Warn("Failed to publish feedback event", zap.String("feedback_id", fb.ID), zap.Error(err))
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownSnapshot
	}
	return s
}
