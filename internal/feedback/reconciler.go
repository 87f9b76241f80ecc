package feedback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mockprep/platform/internal/metrics"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

type AnomalyKind string

const (
	AnomalyInterviewMissing AnomalyKind = "interview_missing"
	AnomalyNotFinalized     AnomalyKind = "interview_not_finalized"
	AnomalyScoreMismatch    AnomalyKind = "score_mismatch"
)

// Anomaly is a feedback document whose interview does not reflect it.
type Anomaly struct {
	Kind           AnomalyKind `json:"kind"`
	FeedbackID     string      `json:"feedbackId"`
	InterviewID    string      `json:"interviewId"`
	FeedbackScore  int         `json:"feedbackScore"`
	InterviewScore *int        `json:"interviewScore,omitempty"`
}

// Repairable reports whether re-applying the finalize step fixes a.
func (a Anomaly) Repairable() bool {
	return a.Kind == AnomalyNotFinalized || a.Kind == AnomalyScoreMismatch
}

type Finalizer interface {
	RetryFinalize(ctx context.Context, feedbackID string) error
}

type Reconciler struct {
	interviews store.InterviewStore
	feedback   store.FeedbackStore
	finalizer  Finalizer
	logger     *zap.Logger
}

func NewReconciler(interviews store.InterviewStore, fb store.FeedbackStore, finalizer Finalizer, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{interviews: interviews, feedback: fb, finalizer: finalizer, logger: logger}
}

// Scan walks every feedback document and reports the ones left behind by a
// partial commit or a later edit of the interview.
func (r *Reconciler) Scan(ctx context.Context) ([]Anomaly, error) {
	fbs, err := r.feedback.FindFeedback(ctx, store.All())
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	var anomalies []Anomaly
	for i := range fbs {
		a, err := r.check(ctx, &fbs[i])
		if err != nil {
			return nil, err
		}
		if a != nil {
			anomalies = append(anomalies, *a)
		}
	}

	metrics.SetFinalizeAnomalies(len(anomalies))
	if len(anomalies) > 0 {
		r.logger.Warn("Finalize anomalies found", zap.Int("count", len(anomalies)))
	}
	return anomalies, nil
}

func (r *Reconciler) check(ctx context.Context, fb *models.Feedback) (*Anomaly, error) {
	a := &Anomaly{FeedbackID: fb.ID, InterviewID: fb.InterviewID, FeedbackScore: fb.TotalScore}

	iv, err := r.interviews.GetInterview(ctx, fb.InterviewID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.Kind = AnomalyInterviewMissing
		return a, nil
	case err != nil:
		return nil, fmt.Errorf("get interview %s: %w", fb.InterviewID, err)
	}

	a.InterviewScore = iv.TotalScore
	switch {
	case !iv.Finalized:
		a.Kind = AnomalyNotFinalized
	case iv.TotalScore == nil || *iv.TotalScore != fb.TotalScore:
		a.Kind = AnomalyScoreMismatch
	default:
		return nil, nil
	}
	return a, nil
}

// Repair re-applies the finalize step for every repairable anomaly and
// returns how many were fixed. It keeps going past individual failures.
func (r *Reconciler) Repair(ctx context.Context, anomalies []Anomaly) (int, error) {
	var (
		repaired int
		errs     []error
	)
	for _, a := range anomalies {
		if !a.Repairable() {
			r.logger.Warn("Skipping unrepairable anomaly",
				zap.String("kind", string(a.Kind)),
				zap.String("feedback_id", a.FeedbackID),
				zap.String("interview_id", a.InterviewID))
			continue
		}
		if err := r.finalizer.RetryFinalize(ctx, a.FeedbackID); err != nil {
			errs = append(errs, fmt.Errorf("feedback %s: %w", a.FeedbackID, err))
			continue
		}
		repaired++
	}
	return repaired, errors.Join(errs...)
}
