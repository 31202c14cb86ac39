package handler

import (
	"errors"

	"acms/internal/delivery/http/middleware"
	"acms/internal/pkg/response"
	"acms/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

// validationError reports the rejected field as {"<field>": "<message>"}.
func validationError(err error) (error, bool) {
	var verr *usecase.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}
	var data any
	if verr.Field != "" {
		data = map[string]string{verr.Field: verr.Message}
	}
	return middleware.NewAppError(fiber.StatusBadRequest, verr.Message, data, err), true
}

// commonError maps the errors shared by every resource.
func commonError(err error) error {
	if appErr, ok := validationError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, middleware.MessageNoPermission, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return badRequest(err)
	default:
		return internalError(err)
	}
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	}
	return id, nil
}
