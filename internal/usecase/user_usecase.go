package usecase

import (
	"context"
	"errors"

	"acms/internal/domain/policy"
	"acms/internal/domain/user"
	"acms/internal/infrastructure/storage"
	ucuser "acms/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error)
	ListUsers(ctx context.Context, actor user.Actor) ([]user.User, error)
}

type User struct {
	svc   *ucuser.Service
	users user.Repository
}

func NewUserUsecase(users user.Repository, uploader storage.Uploader) *User {
	return &User{svc: ucuser.NewService(users, uploader), users: users}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := u.svc.GetMe(ctx, userID)
	return usr, userError(err)
}

func (u *User) UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateMeInput) (user.User, error) {
	usr, err := u.svc.UpdateMe(ctx, userID, in)
	return usr, userError(err)
}

// ListUsers returns the users whose role the actor is allowed to see.
func (u *User) ListUsers(ctx context.Context, actor user.Actor) ([]user.User, error) {
	roles := policy.VisibleRolesFor(actor)
	if len(roles) == 0 {
		return []user.User{}, nil
	}
	items, err := u.users.ListByRoles(ctx, roles)
	if err != nil {
		return nil, ErrInternal
	}
	out := make([]user.User, 0, len(items))
	for _, it := range items {
		it.PasswordHash = ""
		out = append(out, it)
	}
	return out, nil
}

func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ucuser.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, ucuser.ErrInvalidName):
		return invalid("name", ucuser.ErrInvalidName.Error())
	case errors.Is(err, ucuser.ErrInvalidCountry):
		return invalid("country", ucuser.ErrInvalidCountry.Error())
	case errors.Is(err, ucuser.ErrPhotoUpload):
		return ErrPhotoUpload
	default:
		return ErrInternal
	}
}
