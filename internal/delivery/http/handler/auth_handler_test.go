package handler

import (
	"context"
	"testing"

	"acms/internal/delivery/http/dto"
	"acms/internal/domain/user"
	"acms/internal/usecase"
	ucauth "acms/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeAuthUsecase struct {
	usecase.AuthUsecase
	refreshed string
}

func (f *fakeAuthUsecase) Login(_ context.Context, in ucauth.LoginInput) (user.User, usecase.TokenPair, error) {
	if in.Password != "Secret123" {
		return user.User{}, usecase.TokenPair{}, usecase.ErrInvalidCredentials
	}
	u := user.User{ID: uuid.New(), Email: in.Email, Role: user.RoleDeveloper, IsActive: true}
	return u, usecase.TokenPair{Access: "access", Refresh: "refresh"}, nil
}

func (f *fakeAuthUsecase) Refresh(_ context.Context, token string) (usecase.TokenPair, error) {
	f.refreshed = token
	if token != "good-refresh" {
		return usecase.TokenPair{}, usecase.ErrInvalidRefreshToken
	}
	return usecase.TokenPair{Access: "a2", Refresh: "r2"}, nil
}

type fakeInvitations struct {
	inviteErr error
	acceptErr error
	invitedBy user.Actor
	uid       string
	token     string
}

func (f *fakeInvitations) Invite(_ context.Context, actor user.Actor, in usecase.InviteInput) (user.User, error) {
	f.invitedBy = actor
	if f.inviteErr != nil {
		return user.User{}, f.inviteErr
	}
	role, _ := user.ParseRole(in.Role)
	return user.User{ID: uuid.New(), Email: in.Email, Role: role}, nil
}

func (f *fakeInvitations) AcceptInvite(_ context.Context, uid, token string, in usecase.AcceptInviteInput) (user.User, usecase.TokenPair, error) {
	f.uid, f.token = uid, token
	if f.acceptErr != nil {
		return user.User{}, usecase.TokenPair{}, f.acceptErr
	}
	u := user.User{ID: uuid.New(), Email: in.Email, FirstName: in.FirstName, Role: user.RoleDeveloper, IsActive: true}
	return u, usecase.TokenPair{Access: "access", Refresh: "refresh"}, nil
}

func authApp(auth *fakeAuthUsecase, inv *fakeInvitations) *fiber.App {
	h := NewAuthHandler(auth, inv)
	return newTestApp(func(r fiber.Router) { h.RegisterRoutes(r.Group("/auth")) })
}

func TestLogin(t *testing.T) {
	app := authApp(&fakeAuthUsecase{}, &fakeInvitations{})

	status, env := call(t, app, fiber.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "dev@amalitech.com", Password: "Secret123"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	got := decode[dto.AuthResponse](t, env.Data)
	if got.AccessToken != "access" || got.User.Email != "dev@amalitech.com" || got.User.Role != "DEVELOPER" {
		t.Fatalf("unexpected login response: %+v", got)
	}

	status, env = call(t, app, fiber.MethodPost, "/api/v1/auth/login", "", loginRequest{Email: "dev@amalitech.com", Password: "nope"})
	if status != fiber.StatusUnauthorized || env.Message != usecase.ErrInvalidCredentials.Error() {
		t.Fatalf("expected 401 with credentials message, got %d %q", status, env.Message)
	}

	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/login", "dev", loginRequest{Email: "dev@amalitech.com", Password: "Secret123"})
	if status != fiber.StatusForbidden {
		t.Fatalf("authenticated login should be forbidden, got %d", status)
	}
}

func TestRefreshReadsBodyOrHeader(t *testing.T) {
	auth := &fakeAuthUsecase{}
	app := authApp(auth, &fakeInvitations{})

	status, env := call(t, app, fiber.MethodPost, "/api/v1/auth/refresh", "", refreshRequest{RefreshToken: "good-refresh"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	if got := decode[dto.TokenResponse](t, env.Data); got.AccessToken != "a2" {
		t.Fatalf("unexpected tokens: %+v", got)
	}

	status, env = call(t, app, fiber.MethodPost, "/api/v1/auth/refresh", "good-refresh", nil)
	if status != fiber.StatusOK || auth.refreshed != "good-refresh" {
		t.Fatalf("expected header token to be used, got %d %q", status, auth.refreshed)
	}

	status, env = call(t, app, fiber.MethodPost, "/api/v1/auth/refresh", "", refreshRequest{RefreshToken: "stale"})
	if status != fiber.StatusUnauthorized || env.Message != "Invalid refresh token" {
		t.Fatalf("expected 401, got %d %q", status, env.Message)
	}

	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/refresh", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestInvite(t *testing.T) {
	inv := &fakeInvitations{}
	app := authApp(&fakeAuthUsecase{}, inv)
	body := inviteRequest{Email: "new@amalitech.com", Role: "DEVELOPER"}

	status, _ := call(t, app, fiber.MethodPost, "/api/v1/auth/invitations", "", body)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous invite: expected 401, got %d", status)
	}
	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/invitations", "pm", body)
	if status != fiber.StatusForbidden {
		t.Fatalf("pm invite: expected 403, got %d", status)
	}

	status, env := call(t, app, fiber.MethodPost, "/api/v1/auth/invitations", "admin", body)
	if status != fiber.StatusCreated {
		t.Fatalf("admin invite: expected 201, got %d %+v", status, env)
	}
	if inv.invitedBy.ID != adminActor.ID {
		t.Fatalf("expected actor to be forwarded, got %+v", inv.invitedBy)
	}

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{err: usecase.ErrEmailTaken, status: fiber.StatusConflict, message: usecase.ErrEmailTaken.Error()},
		{err: usecase.ErrEmailDelivery, status: fiber.StatusInternalServerError, message: usecase.ErrEmailDelivery.Error()},
		{err: &usecase.ValidationError{Field: "email", Message: "Enter a valid email address."}, status: fiber.StatusBadRequest, message: "Enter a valid email address."},
	}
	for _, tc := range cases {
		inv.inviteErr = tc.err
		status, env := call(t, app, fiber.MethodPost, "/api/v1/auth/invitations", "admin", body)
		if status != tc.status || env.Message != tc.message {
			t.Fatalf("%v: got %d %q, want %d %q", tc.err, status, env.Message, tc.status, tc.message)
		}
	}

	inv.inviteErr = &usecase.ValidationError{Field: "email", Message: "Enter a valid email address."}
	_, env = call(t, app, fiber.MethodPost, "/api/v1/auth/invitations", "admin", body)
	if fields := decode[map[string]string](t, env.Data); fields["email"] == "" {
		t.Fatalf("expected field error in data, got %s", env.Data)
	}
}

func TestAcceptInvite(t *testing.T) {
	inv := &fakeInvitations{}
	app := authApp(&fakeAuthUsecase{}, inv)
	body := acceptInviteRequest{FirstName: "Ama", LastName: "Mensah", Email: "ama@amalitech.com", Password: "Secret123"}

	status, env := call(t, app, fiber.MethodPatch, "/api/v1/auth/accept-invite/dWlk/tok", "", body)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d %+v", status, env)
	}
	if inv.uid != "dWlk" || inv.token != "tok" {
		t.Fatalf("unexpected params: %q %q", inv.uid, inv.token)
	}

	inv.acceptErr = usecase.ErrAccountActive
	status, env = call(t, app, fiber.MethodPatch, "/api/v1/auth/accept-invite/dWlk/tok", "", body)
	if status != fiber.StatusBadRequest || env.Message != usecase.ErrAccountActive.Error() {
		t.Fatalf("expected 400 already active, got %d %q", status, env.Message)
	}

	inv.acceptErr = usecase.ErrInviteInProgress
	status, _ = call(t, app, fiber.MethodPatch, "/api/v1/auth/accept-invite/dWlk/tok", "", body)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 while locked, got %d", status)
	}
}
