package repositories

import (
	"errors"

	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/store"
)

// classify maps store errors onto the application taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, op, err)
	case errors.Is(err, store.ErrConflict):
		return apperrors.Wrapf(apperrors.KindValidationFailure, op, err, "document already exists")
	}
	return apperrors.Wrap(apperrors.KindBackendUnavailable, op, err)
}
