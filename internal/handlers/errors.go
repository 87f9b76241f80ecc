package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/utils"
)

var genericMessages = map[apperrors.Kind]string{
	apperrors.KindUnauthenticated:    "Sign in to continue",
	apperrors.KindForbidden:          "You do not have access to this resource",
	apperrors.KindNotFound:           "Not found",
	apperrors.KindValidationFailure:  "The request could not be processed",
	apperrors.KindBackendUnavailable: "Service temporarily unavailable. Please try again later.",
	apperrors.KindPartialCommit:      "Feedback was saved but the interview could not be finalized",
	apperrors.KindInternal:           "Internal server error",
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidationFailure:
		return http.StatusUnprocessableEntity
	case apperrors.KindBackendUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.KindPartialCommit:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError maps err onto the uniform error response. Only messages set on
// an apperrors.Error reach the client; wrapped causes are logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)

	message := genericMessages[kind]
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" && kind != apperrors.KindInternal {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.String("kind", string(kind)), zap.Error(err))
	}

	utils.JSON(w, status, models.ErrorResponse{
		Code:    string(kind),
		Message: message,
	})
}

func unauthenticated(w http.ResponseWriter) {
	utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
		Code:    string(apperrors.KindUnauthenticated),
		Message: genericMessages[apperrors.KindUnauthenticated],
	})
}
