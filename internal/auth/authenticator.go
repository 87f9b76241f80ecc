// Package auth turns session credentials into users and runs the sign-up and
// sign-in flows.
package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"mockprep/platform/internal/identity"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

// SessionTTL is the lifetime of a session credential.
const SessionTTL = 7 * 24 * time.Hour

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type Authenticator struct {
	provider identity.Provider
	users    store.UserStore
	logger   *zap.Logger
}

func NewAuthenticator(provider identity.Provider, users store.UserStore, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{provider: provider, users: users, logger: logger}
}

// ResolveSession returns the user behind raw. Every failure, whatever the
// cause, resolves to (nil, false); the cause is only logged.
func (a *Authenticator) ResolveSession(ctx context.Context, raw string) (*models.User, bool) {
	if raw == "" {
		return nil, false
	}

	claims, err := a.provider.VerifyCredential(ctx, raw)
	if err != nil {
		a.logger.Debug("session credential rejected", zap.Error(err))
		return nil, false
	}

	user, err := a.users.GetUser(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.logger.Info("session subject has no user record", zap.String("subject_id", claims.SubjectID))
		} else {
			a.logger.Warn("failed to load session user", zap.String("subject_id", claims.SubjectID), zap.Error(err))
		}
		return nil, false
	}
	return user, true
}

// CreateSession exchanges a sign-in proof for a week-long session credential.
func (a *Authenticator) CreateSession(ctx context.Context, proof identity.AuthProof) (*Session, error) {
	token, expires, err := a.provider.IssueCredential(ctx, proof, SessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires}, nil
}
