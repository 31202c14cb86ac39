package ws

import (
	"net/http"
	"strings"

	"acms/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Authenticator resolves an access token to the connecting actor.
type Authenticator interface {
	Authenticate(token string) (user.Actor, error)
}

type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger *zap.Logger
}

func NewHandler(hub *Hub, auth Authenticator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, auth: auth, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAssignmentsWS authenticates the ?token= query parameter before
// upgrading; browsers cannot set headers on websocket requests.
func (h *Handler) HandleAssignmentsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.auth == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	actor, err := h.auth.Authenticate(token)
	if err != nil || !actor.Authenticated {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, actor)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
