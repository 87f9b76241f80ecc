// Package store defines the document store contract used by the repositories
// and the lazily initialized handle that owns the active backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"mockprep/platform/internal/models"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
	// ErrUnavailable is returned by every operation while no backend could be
	// opened, and by backends when the database cannot be reached.
	ErrUnavailable = errors.New("document store unavailable")
)

// PartialCommitError reports that only one half of a feedback commit was
// applied. It is only produced by backends without multi-document
// transactions.
type PartialCommitError struct {
	FeedbackID         string
	InterviewID        string
	FeedbackWritten    bool
	InterviewFinalized bool
	Err                error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial feedback commit (feedback=%s written=%v, interview=%s finalized=%v): %v",
		e.FeedbackID, e.FeedbackWritten, e.InterviewID, e.InterviewFinalized, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
}

type InterviewStore interface {
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	CreateInterview(ctx context.Context, interview *models.Interview) error
	FindInterviews(ctx context.Context, q Query) ([]models.Interview, error)
	MarkInterviewFinalized(ctx context.Context, id string, totalScore int) error
	// ClaimInterview assigns an unassigned interview to userID. It is a no-op
	// for interviews that already have an assignee.
	ClaimInterview(ctx context.Context, id, userID string) error
}

type FeedbackStore interface {
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	FindFeedback(ctx context.Context, q Query) ([]models.Feedback, error)
	// PutFeedback creates or fully overwrites the document with fb.ID.
	PutFeedback(ctx context.Context, fb *models.Feedback) error
	// CommitFeedback writes fb, finalizes fb.InterviewID with fb.TotalScore
	// and claims the interview for fb.UserID as one unit.
	CommitFeedback(ctx context.Context, fb *models.Feedback) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccount(ctx context.Context, subjectID string) (*models.Account, error)
}

type Store interface {
	UserStore
	InterviewStore
	FeedbackStore
	AccountStore
	Ping(ctx context.Context) error
	Close() error
}
