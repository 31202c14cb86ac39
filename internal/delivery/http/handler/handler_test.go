package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/user"
	"acms/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var (
	adminActor     = user.Actor{ID: uuid.New(), Email: "admin@amalitech.com", Role: user.RoleAdmin, Authenticated: true}
	managerActor   = user.Actor{ID: uuid.New(), Email: "pm@amalitech.com", Role: user.RoleProjectManager, Authenticated: true}
	developerActor = user.Actor{ID: uuid.New(), Email: "dev@amalitech.com", Role: user.RoleDeveloper, Authenticated: true}
)

type tokenAuth struct{}

func (tokenAuth) Authenticate(token string) (user.Actor, error) {
	switch token {
	case "admin":
		return adminActor, nil
	case "pm":
		return managerActor, nil
	case "dev":
		return developerActor, nil
	}
	return user.Anonymous(), jwt.ErrTokenInvalid
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	app.Use(middleware.NewAuthMiddleware(tokenAuth{}).Middleware())
	register(app.Group("/api/v1"))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}
