package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mockprep/platform/internal/access"
	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

type InterviewRepository struct {
	Store store.InterviewStore
}

func NewInterviewRepository(s store.InterviewStore) *InterviewRepository {
	return &InterviewRepository{Store: s}
}

// ListForUser returns the user's completed interviews, newest first.
func (r *InterviewRepository) ListForUser(ctx context.Context, user *models.User) ([]models.Interview, error) {
	return r.find(ctx, "interviews.list", access.CompletedInterviews(user))
}

// ListAvailable returns the practice pool for user. limit <= 0 uses the
// default cap.
func (r *InterviewRepository) ListAvailable(ctx context.Context, user *models.User, limit int) ([]models.Interview, error) {
	return r.find(ctx, "interviews.available", access.AvailablePool(user, limit))
}

func (r *InterviewRepository) find(ctx context.Context, op string, q store.Query) ([]models.Interview, error) {
	ivs, err := r.Store.FindInterviews(ctx, q)
	if err != nil {
		return nil, classify(op, err)
	}
	access.SortNewestFirst(ivs)
	return ivs, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := r.Store.GetInterview(ctx, id)
	if err != nil {
		return nil, classify("interviews.get", err)
	}
	return iv, nil
}

// GetForUser is GetByID constrained by the visibility rules.
func (r *InterviewRepository) GetForUser(ctx context.Context, user *models.User, id string) (*models.Interview, error) {
	iv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewInterview(user, iv) {
		return nil, apperrors.New(apperrors.KindForbidden, "interviews.get", "interview not visible")
	}
	return iv, nil
}

// MarkFinalized is the only mutation of an existing interview.
func (r *InterviewRepository) MarkFinalized(ctx context.Context, id string, totalScore int) error {
	if !models.ScoreInRange(totalScore) {
		return apperrors.New(apperrors.KindValidationFailure, "interviews.finalize", "total score out of range")
	}
	return classify("interviews.finalize", r.Store.MarkInterviewFinalized(ctx, id, totalScore))
}

// Create stores a new unfinalized interview owned by the admin.
func (r *InterviewRepository) Create(ctx context.Context, admin *models.User, req *models.CreateInterviewRequest) (*models.Interview, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "interviews.create", "only admins can create interviews")
	}
	iv := &models.Interview{
		ID:         uuid.NewString(),
		UserID:     admin.ID,
		AssignedTo: req.AssignedTo,
		Role:       req.Role,
		Level:      req.Level,
		Type:       req.Type,
		Techstack:  req.Techstack,
		Questions:  req.Questions,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.Store.CreateInterview(ctx, iv); err != nil {
		return nil, classify("interviews.create", err)
	}
	return iv, nil
}
