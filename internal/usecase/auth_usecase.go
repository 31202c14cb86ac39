package usecase

import (
	"context"
	"errors"

	"acms/internal/domain/user"
	"acms/internal/pkg/jwt"
	ucauth "acms/internal/usecase/auth"
)

type TokenPair struct {
	Access  string
	Refresh string
}

type AuthUsecase interface {
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Authenticate(token string) (user.Actor, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidCredentials) {
			return user.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.User{}, TokenPair{}, ErrInternal
	}

	pair, err := issueTokens(u.jwt, usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, pair, nil
}

// Refresh reloads the user so role changes and deactivation take effect.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, ErrInternal
	}
	if !usr.IsActive {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	return issueTokens(u.jwt, usr)
}

// Authenticate turns a bearer access token into the request actor.
func (u *Auth) Authenticate(token string) (user.Actor, error) {
	if token == "" {
		return user.Anonymous(), ErrUnauthorized
	}
	claims, err := u.jwt.ValidateToken(token)
	if err != nil {
		return user.Anonymous(), err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return user.Anonymous(), jwt.ErrTokenInvalid
	}
	return claims.Actor(), nil
}

func issueTokens(svc jwt.Service, usr user.User) (TokenPair, error) {
	access, err := svc.GenerateAccessToken(usr)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	refresh, err := svc.GenerateRefreshToken(usr.ID)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
