package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindNotFound, "interviews.get", "interview not found")
	if got := err.Error(); got != "interviews.get: interview not found" {
		t.Fatalf("unexpected message: %s", got)
	}

	wrapped := Wrap(KindBackendUnavailable, "feedback.list", errors.New("dial tcp"))
	if got := wrapped.Error(); got != "feedback.list: backend_unavailable (dial tcp)" {
		t.Fatalf("unexpected wrapped message: %s", got)
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(KindForbidden, "op", "no"))
	if !errors.Is(err, Forbidden) {
		t.Fatal("expected errors.Is to match Forbidden")
	}
	if errors.Is(err, NotFound) {
		t.Fatal("did not expect NotFound to match")
	}
}

func TestErrorsIsReachesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindPartialCommit, "commit", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to stay reachable")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != "" {
		t.Fatal("expected empty kind for nil")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatal("expected internal kind for foreign errors")
	}
	if KindOf(fmt.Errorf("x: %w", ValidationFailure)) != KindValidationFailure {
		t.Fatal("expected validation failure kind")
	}
}
