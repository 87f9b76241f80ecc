package llm

import (
	"context"
	"errors"
)

// defines the interface for structured output providers
type Provider interface {
	GenerateStructured(ctx context.Context, req *GenerationRequest) (*GenerationResponse, error)
	GetProviderName() string
}

type GenerationRequest struct {
	System    string
	Prompt    string
	Schema    *Schema
	RequestID string
}

// Content holds the raw JSON document produced by the model.
type GenerationResponse struct {
	Content   string
	RequestID string
	Metadata  GenerationMetadata
}

type GenerationMetadata struct {
	Provider       string
	Model          string
	ProcessingTime int
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes shared by all providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

// CodeOf returns the provider error code in err's chain, or "".
func CodeOf(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// ClassifyCallError picks a code for a failed model call made with ctx.
func ClassifyCallError(ctx context.Context, err error, rateLimited bool) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrCodeTimeout
	case rateLimited:
		return ErrCodeRateLimit
	}
	return ErrCodeServiceDown
}
