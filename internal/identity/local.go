package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

// LocalProvider keeps accounts in the document store and issues HS256 JWTs.
type LocalProvider struct {
	accounts store.AccountStore
	secret   []byte
	cost     int
	now      func() time.Time
}

var _ Provider = (*LocalProvider)(nil)

type Option func(*LocalProvider)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(p *LocalProvider) { p.cost = cost }
}

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) { p.now = now }
}

func NewLocalProvider(accounts store.AccountStore, secret string, opts ...Option) (*LocalProvider, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	p := &LocalProvider{
		accounts: accounts,
		secret:   []byte(secret),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Email uniqueness is enforced by the store, so
// concurrent registrations of one address yield exactly one account.
func (p *LocalProvider) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	account := &models.Account{
		SubjectID:    uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    p.now().UTC(),
	}
	if err := p.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return account.SubjectID, nil
}

// IssueCredential checks the password and returns a signed token valid for ttl.
func (p *LocalProvider) IssueCredential(ctx context.Context, proof AuthProof, ttl time.Duration) (string, time.Time, error) {
	account, err := p.accounts.GetAccountByEmail(ctx, normalizeEmail(proof.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, ErrAccountNotFound
		}
		return "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(proof.Password)) != nil {
		return "", time.Time{}, ErrWrongPassword
	}

	issued := p.now().UTC()
	expires := issued.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   account.SubjectID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign credential: %w", err)
	}
	return signed, expires, nil
}

// VerifyCredential validates signature, algorithm and expiry.
func (p *LocalProvider) VerifyCredential(_ context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidCredential
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}
	if claims.Subject == "" {
		return nil, ErrInvalidCredential
	}

	out := &Claims{SubjectID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (p *LocalProvider) LookupByEmail(ctx context.Context, email string) (*Identity, error) {
	account, err := p.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	return toIdentity(account, err)
}

func (p *LocalProvider) LookupBySubjectID(ctx context.Context, subjectID string) (*Identity, error) {
	account, err := p.accounts.GetAccount(ctx, subjectID)
	return toIdentity(account, err)
}

func toIdentity(account *models.Account, err error) (*Identity, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &Identity{SubjectID: account.SubjectID, Email: account.Email}, nil
}
