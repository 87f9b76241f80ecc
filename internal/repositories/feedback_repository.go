package repositories

import (
	"context"

	"mockprep/platform/internal/access"
	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

type FeedbackRepository struct {
	Store store.FeedbackStore
}

func NewFeedbackRepository(s store.FeedbackStore) *FeedbackRepository {
	return &FeedbackRepository{Store: s}
}

// GetByInterviewID returns the feedback for the interview, or nil when there
// is none the user may see.
func (r *FeedbackRepository) GetByInterviewID(ctx context.Context, interviewID string, user *models.User) (*models.Feedback, error) {
	fbs, err := r.Store.FindFeedback(ctx, access.FeedbackForInterview(user, interviewID))
	if err != nil {
		return nil, classify("feedback.by_interview", err)
	}
	if len(fbs) == 0 {
		return nil, nil
	}
	return &fbs[0], nil
}

func (r *FeedbackRepository) ListForUser(ctx context.Context, user *models.User) ([]models.Feedback, error) {
	fbs, err := r.Store.FindFeedback(ctx, access.Feedback(user))
	if err != nil {
		return nil, classify("feedback.list", err)
	}
	access.SortFeedbackNewestFirst(fbs)
	return fbs, nil
}

// ListAll is the admin-only listing of every feedback document.
func (r *FeedbackRepository) ListAll(ctx context.Context, user *models.User) ([]models.Feedback, error) {
	if !user.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "feedback.list_all", "admin only")
	}
	return r.ListForUser(ctx, user)
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	fb, err := r.Store.GetFeedback(ctx, id)
	if err != nil {
		return nil, classify("feedback.get", err)
	}
	return fb, nil
}

// GetForUser is GetByID constrained by the visibility rules.
func (r *FeedbackRepository) GetForUser(ctx context.Context, user *models.User, id string) (*models.Feedback, error) {
	fb, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewFeedback(user, fb) {
		return nil, apperrors.New(apperrors.KindForbidden, "feedback.get", "feedback not visible")
	}
	return fb, nil
}
