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

// user-visible outcomes of the auth flows
const (
	MsgUserExists      = "User already exists. Please sign in instead."
	MsgEmailInUse      = "This email is already in use."
	MsgSignUpFailed    = "Failed to create an account."
	MsgSignUpOK        = "Account created successfully. Please sign in."
	MsgDatabaseDown    = "Database not available. Please try again later."
	MsgNoSuchUser      = "User does not exist. Please create an account instead."
	MsgSignInFailed    = "Failed to log in to an account."
	MsgSignInOK        = "Signed in successfully."
	MsgAuthServiceDown = "Authentication service not available. Please try again later."
)

type SignUpParams struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type SignInParams struct {
	Email    string
	Password string
}

type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Role    models.Role `json:"role,omitempty"`
}

type Service struct {
	authn    *Authenticator
	provider identity.Provider
	users    store.UserStore
	logger   *zap.Logger

	// AllowAdminSignUp lets self-service sign-up create admins. When false an
	// admin request is registered as a candidate.
	AllowAdminSignUp bool
}

func NewService(authn *Authenticator, provider identity.Provider, users store.UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{authn: authn, provider: provider, users: users, logger: logger}
}

func (s *Service) SignUp(ctx context.Context, p SignUpParams) Result {
	if _, err := s.users.GetUserByEmail(ctx, p.Email); err == nil {
		return Result{Message: MsgUserExists}
	} else if !errors.Is(err, store.ErrNotFound) {
		return s.signUpFailure(err)
	}

	subjectID, err := s.provider.Register(ctx, p.Email, p.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			return Result{Message: MsgEmailInUse}
		}
		return s.signUpFailure(err)
	}

	role := p.Role
	if role == "" || (role == models.RoleAdmin && !s.AllowAdminSignUp) {
		role = models.RoleCandidate
	}
	user := &models.User{
		ID:        subjectID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Result{Message: MsgUserExists}
		}
		return s.signUpFailure(err)
	}

	s.logger.Info("account created", zap.String("user_id", subjectID), zap.String("role", role.String()))
	return Result{Success: true, Message: MsgSignUpOK}
}

func (s *Service) signUpFailure(err error) Result {
	s.logger.Error("sign up failed", zap.Error(err))
	if errors.Is(err, store.ErrUnavailable) {
		return Result{Message: MsgDatabaseDown}
	}
	return Result{Message: MsgSignUpFailed}
}

// SignIn verifies the proof and issues a session. The session is returned
// only on success.
func (s *Service) SignIn(ctx context.Context, p SignInParams) (Result, *Session) {
	ident, err := s.provider.LookupByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, identity.ErrAccountNotFound) {
			return Result{Message: MsgNoSuchUser}, nil
		}
		return s.signInFailure(err), nil
	}

	session, err := s.authn.CreateSession(ctx, identity.AuthProof{Email: p.Email, Password: p.Password})
	if err != nil {
		return s.signInFailure(err), nil
	}

	// a credential without a user record would never resolve, so none is issued
	user, err := s.users.GetUser(ctx, ident.SubjectID)
	if err != nil {
		s.logger.Warn("signed in subject has no user record", zap.String("subject_id", ident.SubjectID), zap.Error(err))
		if errors.Is(err, store.ErrUnavailable) {
			return Result{Message: MsgAuthServiceDown}, nil
		}
		return Result{Message: MsgSignInFailed}, nil
	}
	return Result{Success: true, Message: MsgSignInOK, Role: user.Role}, session
}

func (s *Service) signInFailure(err error) Result {
	if errors.Is(err, identity.ErrWrongPassword) {
		s.logger.Info("sign in rejected", zap.Error(err))
	} else {
		s.logger.Error("sign in failed", zap.Error(err))
	}
	if errors.Is(err, store.ErrUnavailable) {
		return Result{Message: MsgAuthServiceDown}
	}
	return Result{Message: MsgSignInFailed}
}
