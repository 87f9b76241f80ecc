package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mockprep/platform/internal/models"
)

// Opener connects to a backend.
type Opener func(ctx context.Context) (Store, error)

// Handle is the process wide connection handle. It opens its backend lazily on
// first use and reports ErrUnavailable from every operation until a backend is
// available. Failed opens are retried at most once per retryAfter.
type Handle struct {
	open       Opener
	logger     *zap.Logger
	retryAfter time.Duration

	mu      sync.Mutex
	backend Store
	lastErr error
	lastTry time.Time
	closed  bool
	now     func() time.Time
}

var _ Store = (*Handle)(nil)

var ErrClosed = errors.New("document store handle closed")

func NewHandle(open Opener, logger *zap.Logger, retryAfter time.Duration) *Handle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{open: open, logger: logger, retryAfter: retryAfter, now: time.Now}
}

// Init opens the backend eagerly. A failure leaves the handle in the
// unavailable state rather than aborting the caller.
func (h *Handle) Init(ctx context.Context) error {
	_, err := h.get(ctx)
	return err
}

// Available reports whether a backend is currently open.
func (h *Handle) Available() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.backend != nil
}

func (h *Handle) get(ctx context.Context) (Store, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if h.backend != nil {
		return h.backend, nil
	}
	if h.lastErr != nil && h.now().Sub(h.lastTry) < h.retryAfter {
		return nil, ErrUnavailable
	}

	h.lastTry = h.now()
	backend, err := h.open(ctx)
	if err != nil {
		h.lastErr = err
		h.logger.Warn("document store unavailable", zap.Error(err))
		return nil, ErrUnavailable
	}
	h.backend = backend
	h.lastErr = nil
	h.logger.Info("document store connected")
	return backend, nil
}

// Close tears the backend down. The handle cannot be reused afterwards.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.backend == nil {
		return nil
	}
	err := h.backend.Close()
	h.backend = nil
	return err
}

func (h *Handle) Ping(ctx context.Context) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.Ping(ctx)
}

func (h *Handle) GetUser(ctx context.Context, id string) (*models.User, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (h *Handle) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetUserByEmail(ctx, email)
}

func (h *Handle) CreateUser(ctx context.Context, user *models.User) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.CreateUser(ctx, user)
}

func (h *Handle) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.UpdateUserRole(ctx, id, role)
}

func (h *Handle) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetInterview(ctx, id)
}

func (h *Handle) CreateInterview(ctx context.Context, interview *models.Interview) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.CreateInterview(ctx, interview)
}

func (h *Handle) FindInterviews(ctx context.Context, q Query) ([]models.Interview, error) {
	if q.MatchNone {
		return []models.Interview{}, nil
	}
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.FindInterviews(ctx, q)
}

func (h *Handle) MarkInterviewFinalized(ctx context.Context, id string, totalScore int) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.MarkInterviewFinalized(ctx, id, totalScore)
}

func (h *Handle) ClaimInterview(ctx context.Context, id, userID string) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.ClaimInterview(ctx, id, userID)
}

func (h *Handle) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetFeedback(ctx, id)
}

func (h *Handle) FindFeedback(ctx context.Context, q Query) ([]models.Feedback, error) {
	if q.MatchNone {
		return []models.Feedback{}, nil
	}
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.FindFeedback(ctx, q)
}

func (h *Handle) PutFeedback(ctx context.Context, fb *models.Feedback) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.PutFeedback(ctx, fb)
}

func (h *Handle) CommitFeedback(ctx context.Context, fb *models.Feedback) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.CommitFeedback(ctx, fb)
}

func (h *Handle) CreateAccount(ctx context.Context, account *models.Account) error {
	s, err := h.get(ctx)
	if err != nil {
		return err
	}
	return s.CreateAccount(ctx, account)
}

func (h *Handle) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetAccountByEmail(ctx, email)
}

func (h *Handle) GetAccount(ctx context.Context, subjectID string) (*models.Account, error) {
	s, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, subjectID)
}
