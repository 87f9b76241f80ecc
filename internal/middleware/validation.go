package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"mockprep/platform/internal/models"
	"mockprep/platform/internal/utils"
)

// MaxBodyBytes bounds a validated request body. Transcripts are the largest
// payload the service accepts.
const MaxBodyBytes int64 = 1 << 20

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// Validator is implemented by request models. Validate may normalize the
// request in place before checking it.
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into a fresh T, runs its Validate
// method and hands the result to the next handler through the context.
// Malformed JSON is a 400; a request that parses but fails its rules is a 422.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newRequest[T]()

			if err := decodeBody(w, r, req); err != nil {
				code, message := "invalid_json", "Invalid JSON in request body"
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					code, message = "body_too_large", "Request body too large"
				}
				utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: code, Message: message})
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if !errors.As(err, &errResp) {
					errResp = &models.ErrorResponse{Code: "validation_error", Message: err.Error()}
				}
				utils.JSON(w, http.StatusUnprocessableEntity, *errResp)
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequest[T Validator]() T {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() == reflect.Ptr {
		return reflect.New(typ.Elem()).Interface().(T)
	}
	return reflect.New(typ).Interface().(T)
}

// decodeBody reads exactly one JSON value. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// GetValidatedRequest returns the request stored by ValidateRequest.
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
