package middleware

import (
	"errors"

	"acms/internal/logger"
	"acms/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(log *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger.OrNop(log)}
}

// Middleware renders every error as the response envelope. Causes of 5xx
// errors are logged and never sent to the client.
func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.requestLogger(c).Error("panic recovered", zap.Any("panic", r), zap.Stack("stack"))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.requestLogger(c).Error("request failed",
				zap.Int("status", status),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return response.Error(c, status, msg, data)
	}
}

// requestLogger prefers the request-scoped logger set by the access log.
func (m *ErrorMiddleware) requestLogger(c fiber.Ctx) *zap.Logger {
	return logger.FromContext(c.Context(), m.logger)
}

// normalizeError maps err to the status, message and data sent to the
// client. Only AppError below 500 and fiber client errors keep their details.
func normalizeError(err error) (int, string, any) {
	var (
		appErr   *AppError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &appErr) && appErr.StatusCode > 0:
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(appErr.StatusCode)
		}
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			return appErr.StatusCode, msg, nil
		}
		return appErr.StatusCode, msg, appErr.Data

	case errors.As(err, &fiberErr) && fiberErr.Code > 0 && fiberErr.Code < fiber.StatusInternalServerError:
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(fiberErr.Code)
		}
		return fiberErr.Code, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
