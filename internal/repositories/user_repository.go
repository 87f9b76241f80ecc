package repositories

import (
	"context"
	"strings"

	"mockprep/platform/internal/apperrors"
	"mockprep/platform/internal/models"
	"mockprep/platform/internal/store"
)

type UserRepository struct {
	Store store.UserStore
}

func NewUserRepository(s store.UserStore) *UserRepository {
	return &UserRepository{Store: s}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.Store.GetUser(ctx, id)
	if err != nil {
		return nil, classify("users.get", err)
	}
	return user, nil
}

// SetRoleByEmail is the administrative role edit. It is not reachable from
// the HTTP surface.
func (r *UserRepository) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.New(apperrors.KindValidationFailure, "users.set_role", "unknown role "+role.String())
	}
	user, err := r.Store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, classify("users.set_role", err)
	}
	if err := r.Store.UpdateUserRole(ctx, user.ID, role); err != nil {
		return nil, classify("users.set_role", err)
	}
	user.Role = role
	return user, nil
}
