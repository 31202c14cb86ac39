package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"acms/internal/domain/policy"
	"acms/internal/domain/user"
	"acms/internal/pkg/jwt"
	"acms/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuthenticator struct {
	actors map[string]user.Actor
	errs   map[string]error
}

func (f fakeAuthenticator) Authenticate(token string) (user.Actor, error) {
	if err, ok := f.errs[token]; ok {
		return user.Anonymous(), err
	}
	if a, ok := f.actors[token]; ok {
		return a, nil
	}
	return user.Anonymous(), jwt.ErrTokenInvalid
}

func newApp(t *testing.T, rule policy.Rule) *fiber.App {
	t.Helper()
	auth := fakeAuthenticator{
		actors: map[string]user.Actor{
			"admin": {ID: uuid.New(), Role: user.RoleAdmin, Authenticated: true},
			"dev":   {ID: uuid.New(), Role: user.RoleDeveloper, Authenticated: true},
		},
		errs: map[string]error{"expired": jwt.ErrTokenExpired},
	}

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Use(NewAuthMiddleware(auth).Middleware())
	app.Get("/guarded", Authorize(rule), func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, response.MessageOK, ActorFrom(c).Role.String())
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "Fail to send email!", map[string]string{"secret": "x"}, errors.New("smtp down"))
	})
	app.Get("/plain", func(c fiber.Ctx) error {
		return errors.New("database password leaked")
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("boom")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, token string) (int, response.SemanticResponse) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var env response.SemanticResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, body)
		}
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID on %s", path)
	}
	return resp.StatusCode, env
}

func TestAuthorize(t *testing.T) {
	app := newApp(t, policy.IsAdmin)

	cases := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{name: "anonymous", status: fiber.StatusUnauthorized, message: MessageNotAuthenticated},
		{name: "expired token", token: "expired", status: fiber.StatusUnauthorized, message: "Token expired"},
		{name: "unknown token", token: "garbage", status: fiber.StatusUnauthorized, message: "Invalid token"},
		{name: "wrong role", token: "dev", status: fiber.StatusForbidden, message: MessageNoPermission},
		{name: "admin", token: "admin", status: fiber.StatusOK, message: response.MessageOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, app, "/guarded", tc.token)
			if status != tc.status || env.Message != tc.message {
				t.Fatalf("got %d %q, want %d %q", status, env.Message, tc.status, tc.message)
			}
		})
	}
}

func TestAuthorizeAnonymousRule(t *testing.T) {
	app := newApp(t, policy.IsNotAuthenticated)

	if status, _ := do(t, app, "/guarded", ""); status != fiber.StatusOK {
		t.Fatalf("anonymous should pass, got %d", status)
	}
	if status, _ := do(t, app, "/guarded", "garbage"); status != fiber.StatusOK {
		t.Fatalf("invalid token counts as anonymous, got %d", status)
	}
	if status, _ := do(t, app, "/guarded", "admin"); status != fiber.StatusForbidden {
		t.Fatalf("authenticated should be forbidden, got %d", status)
	}
}

func TestErrorMiddlewareHidesCauses(t *testing.T) {
	app := newApp(t, policy.IsAdmin)

	status, env := do(t, app, "/boom", "")
	if status != fiber.StatusInternalServerError || env.Message != "Fail to send email!" || env.Data != nil {
		t.Fatalf("unexpected app error rendering: %d %+v", status, env)
	}

	status, env = do(t, app, "/plain", "")
	if status != fiber.StatusInternalServerError || env.Message != response.MessageInternalServerError {
		t.Fatalf("unexpected plain error rendering: %d %+v", status, env)
	}

	status, env = do(t, app, "/panic", "")
	if status != fiber.StatusInternalServerError || env.Message != response.MessageInternalServerError {
		t.Fatalf("unexpected panic rendering: %d %+v", status, env)
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":    "abc",
		"bearer  abc  ": "abc",
		"Basic abc":     "",
		"Bearer":        "",
		"":              "",
	}
	for in, want := range cases {
		got, ok := bearerTokenFromHeader(in)
		if got != want || ok != (want != "") {
			t.Fatalf("bearerTokenFromHeader(%q) = %q, %v", in, got, ok)
		}
	}
}

func TestRequestIDReachesErrorLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log).Middleware())
	app.Use(NewErrorMiddleware(log).Middleware())
	app.Get("/plain", func(c fiber.Ctx) error {
		return errors.New("db down")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/plain", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.Header.Get("X-Request-ID") != "req-42" {
		t.Fatalf("expected request id echoed, got %q", resp.Header.Get("X-Request-ID"))
	}

	failed := logs.FilterMessage("request failed").All()
	if len(failed) != 1 || failed[0].ContextMap()["request_id"] != "req-42" {
		t.Fatalf("expected one error log with request_id, got %+v", failed)
	}
	access := logs.FilterMessage("http access").All()
	if len(access) != 1 || access[0].ContextMap()["status"] != int64(fiber.StatusInternalServerError) {
		t.Fatalf("unexpected access log: %+v", access)
	}
}
