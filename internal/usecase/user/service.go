package user

import (
	"context"
	"errors"
	"io"
	"strings"

	"acms/internal/domain/user"
	"acms/internal/infrastructure/storage"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

const MaxNameLength = 150

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidName    = errors.New("name must not be blank or longer than 150 characters")
	ErrInvalidCountry = errors.New("country must be an ISO 3166-1 alpha-2 code")
	ErrPhotoUpload    = errors.New("photo upload failed")
	ErrInternal       = errors.New("internal error")
)

type Photo struct {
	Filename string
	Body     io.Reader
}

type UpdateMeInput struct {
	FirstName *string
	LastName  *string
	Country   *string
	Photo     *Photo
}

type Service struct {
	users    user.Repository
	uploader storage.Uploader
}

func NewService(users user.Repository, uploader storage.Uploader) *Service {
	return &Service{users: users, uploader: uploader}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.FirstName != nil {
		name, ok := normalizeName(*in.FirstName)
		if !ok {
			return user.User{}, ErrInvalidName
		}
		usr.FirstName = name
	}
	if in.LastName != nil {
		name, ok := normalizeName(*in.LastName)
		if !ok {
			return user.User{}, ErrInvalidName
		}
		usr.LastName = name
	}

	if in.Country != nil {
		country, ok := NormalizeCountry(*in.Country)
		if !ok {
			return user.User{}, ErrInvalidCountry
		}
		usr.Country = country
	}

	if in.Photo != nil {
		if s.uploader == nil {
			return user.User{}, ErrPhotoUpload
		}
		url, err := s.uploader.SaveImage(ctx, "profile-photos", in.Photo.Filename, in.Photo.Body)
		if err != nil {
			return user.User{}, errors.Join(ErrPhotoUpload, err)
		}
		usr.ProfilePhoto = url
	}

	if err := s.users.Update(ctx, usr); err != nil {
		return user.User{}, ErrInternal
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

// NormalizeCountry accepts an ISO 3166-1 alpha-2 country code in any case.
// An empty value clears the country.
func NormalizeCountry(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", true
	}
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", false
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}

func normalizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return "", false
	}
	return name, true
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
