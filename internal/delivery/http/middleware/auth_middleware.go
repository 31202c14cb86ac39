package middleware

import (
	"errors"
	"strings"

	"acms/internal/domain/policy"
	"acms/internal/domain/user"
	"acms/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxActorKey     = "actor"
	CtxAuthErrorKey = "auth_error"
)

const (
	MessageNotAuthenticated = "Authentication credentials were not provided."
	MessageNoPermission     = "You do not have permission to perform this action."
)

// Authenticator resolves a bearer access token to the request actor.
type Authenticator interface {
	Authenticate(token string) (user.Actor, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware resolves the actor from a bearer access token. Every request
// continues; without a usable token it is evaluated as the anonymous actor
// and the rejection reason is kept for Authorize.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(CtxActorKey, user.Anonymous())

		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok || m.auth == nil {
			return c.Next()
		}

		actor, err := m.auth.Authenticate(token)
		if err != nil {
			c.Locals(CtxAuthErrorKey, err)
			return c.Next()
		}

		c.Locals(CtxActorKey, actor)
		return c.Next()
	}
}

// Authorize lets the request through when rule holds for the actor. An
// anonymous actor gets 401, an authenticated one 403.
func Authorize(rule policy.Rule) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor := ActorFrom(c)
		if rule != nil && rule(actor) {
			return c.Next()
		}
		if actor.Authenticated {
			return NewAppError(fiber.StatusForbidden, MessageNoPermission, nil, nil)
		}

		authErr, _ := c.Locals(CtxAuthErrorKey).(error)
		switch {
		case authErr == nil:
			return NewAppError(fiber.StatusUnauthorized, MessageNotAuthenticated, nil, nil)
		case errors.Is(authErr, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, authErr)
		default:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, authErr)
		}
	}
}

func ActorFrom(c fiber.Ctx) user.Actor {
	actor, ok := c.Locals(CtxActorKey).(user.Actor)
	if !ok {
		return user.Anonymous()
	}
	return actor
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c fiber.Ctx) (string, bool) {
	return bearerTokenFromHeader(c.Get("Authorization"))
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
