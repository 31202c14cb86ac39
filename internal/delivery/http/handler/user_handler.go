package handler

import (
	"errors"
	"fmt"
	"strings"

	"acms/internal/delivery/http/dto"
	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/policy"
	"acms/internal/pkg/response"
	"acms/internal/usecase"
	ucuser "acms/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

const photoField = "profile_photo"

type UserHandler struct {
	uc           usecase.UserUsecase
	maxPhotoSize int64
}

type updateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Country   *string `json:"country"`
}

func NewUserHandler(uc usecase.UserUsecase, maxPhotoSize int64) *UserHandler {
	return &UserHandler{uc: uc, maxPhotoSize: maxPhotoSize}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", middleware.Authorize(policy.IsAuthenticated), h.GetMe)
	r.Patch("/me", middleware.Authorize(policy.IsAuthenticated), h.UpdateMe)
	r.Get("/", middleware.Authorize(policy.ManagesProjects), h.List)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	usr, err := h.uc.GetMe(c.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

// UpdateMe accepts either a JSON body or a multipart form carrying the
// profile photo.
func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	var in ucuser.UpdateMeInput
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(err)
		}
		in.FirstName = formValue(form.Value, "first_name")
		in.LastName = formValue(form.Value, "last_name")
		in.Country = formValue(form.Value, "country")

		if files := form.File[photoField]; len(files) > 0 {
			fh := files[0]
			if h.maxPhotoSize > 0 && fh.Size > h.maxPhotoSize {
				msg := fmt.Sprintf("photo must not exceed %d bytes", h.maxPhotoSize)
				return middleware.NewAppError(fiber.StatusBadRequest, msg, map[string]string{photoField: msg}, nil)
			}
			f, err := fh.Open()
			if err != nil {
				return mapUserUsecaseError(usecase.ErrPhotoUpload)
			}
			defer f.Close()
			in.Photo = &ucuser.Photo{Filename: fh.Filename, Body: f}
		}
	} else {
		var req updateMeRequest
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
		in.FirstName = req.FirstName
		in.LastName = req.LastName
		in.Country = req.Country
	}

	usr, err := h.uc.UpdateMe(c.Context(), middleware.ActorFrom(c).ID, in)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewUserResponse(usr))
}

func (h *UserHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListUsers(c.Context(), middleware.ActorFrom(c))
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserListResponse(items))
}

func formValue(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

func mapUserUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrPhotoUpload):
		return middleware.NewAppError(fiber.StatusInternalServerError, usecase.ErrPhotoUpload.Error(), nil, err)
	default:
		return commonError(err)
	}
}
