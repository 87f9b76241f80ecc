// Package identity is the boundary to the identity provider: it registers
// accounts, exchanges credentials for signed session tokens and verifies
// them.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAccountNotFound   = errors.New("account not found")
	ErrEmailExists       = errors.New("email already registered")
	ErrWrongPassword     = errors.New("wrong password")
)

// AuthProof is what a user presents at sign-in.
type AuthProof struct {
	Email    string
	Password string
}

// Claims are the verified contents of a session credential.
type Claims struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Identity struct {
	SubjectID string
	Email     string
}

type Provider interface {
	Register(ctx context.Context, email, password string) (string, error)
	IssueCredential(ctx context.Context, proof AuthProof, ttl time.Duration) (string, time.Time, error)
	VerifyCredential(ctx context.Context, token string) (*Claims, error)
	LookupByEmail(ctx context.Context, email string) (*Identity, error)
	LookupBySubjectID(ctx context.Context, subjectID string) (*Identity, error)
}
