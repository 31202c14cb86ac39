package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"acms/internal/config"
	"acms/internal/domain/user"
	"acms/internal/pkg/jwt"
	ucauth "acms/internal/usecase/auth"

	"github.com/google/uuid"
)

func newTestJWT() *jwt.HMACService {
	return jwt.NewHMACService(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		InviteSecret:  "invite-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		InviteTTL:     72 * time.Hour,
	})
}

func activeUser(t *testing.T, email string, role user.Role) user.User {
	t.Helper()
	hash, err := ucauth.HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return user.User{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role, IsActive: true}
}

func TestAuthLoginIssuesTokens(t *testing.T) {
	u := activeUser(t, "pm@amalitech.com", user.RoleProjectManager)
	jwtSvc := newTestJWT()
	uc := NewAuthUsecase(newFakeUsers(u), jwtSvc)

	got, pair, err := uc.Login(context.Background(), ucauth.LoginInput{Email: "PM@amalitech.com", Password: "Passw0rd"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", got)
	}

	actor, err := uc.Authenticate(pair.Access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !actor.Authenticated || actor.Role != user.RoleProjectManager || actor.ID != u.ID {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	if _, err := uc.Authenticate(pair.Refresh); err == nil {
		t.Fatalf("refresh token must not authenticate requests")
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	u := activeUser(t, "dev@amalitech.com", user.RoleDeveloper)
	uc := NewAuthUsecase(newFakeUsers(u), newTestJWT())

	_, _, err := uc.Login(context.Background(), ucauth.LoginInput{Email: u.Email, Password: "Wrong000"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthRefresh(t *testing.T) {
	u := activeUser(t, "admin@amalitech.com", user.RoleAdmin)
	users := newFakeUsers(u)
	jwtSvc := newTestJWT()
	uc := NewAuthUsecase(users, jwtSvc)
	ctx := context.Background()

	refresh, err := jwtSvc.GenerateRefreshToken(u.ID)
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	pair, err := uc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected a token pair")
	}

	access, err := jwtSvc.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if _, err := uc.Refresh(ctx, access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access token, got %v", err)
	}

	u.IsActive = false
	users.byID[u.ID] = u
	if _, err := uc.Refresh(ctx, refresh); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for inactive user, got %v", err)
	}

	if _, err := uc.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
