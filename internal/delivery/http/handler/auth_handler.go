package handler

import (
	"errors"
	"strings"

	"acms/internal/delivery/http/dto"
	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/policy"
	"acms/internal/pkg/response"
	"acms/internal/usecase"
	ucauth "acms/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc      usecase.AuthUsecase
	invites usecase.InvitationUsecase
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type acceptInviteRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase, invites usecase.InvitationUsecase) *AuthHandler {
	return &AuthHandler{uc: uc, invites: invites}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", middleware.Authorize(policy.IsNotAuthenticated), h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/invitations", middleware.Authorize(policy.IsAdmin), h.Invite)
	r.Patch("/accept-invite/:uid/:token", h.AcceptInvite)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, pair, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	data := dto.AuthResponse{
		User:         dto.NewUserResponse(usr),
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	}
	return response.Success(c, fiber.StatusOK, "Login successful", data)
}

// Refresh reads the refresh token from the body, falling back to the
// Authorization header.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
	}
	tok := strings.TrimSpace(req.RefreshToken)
	if tok == "" {
		var ok bool
		if tok, ok = middleware.BearerToken(c); !ok {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
	}

	pair, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		if errors.Is(err, usecase.ErrRefreshTokenExpired) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		}
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
		}
		if errors.Is(err, usecase.ErrUnauthorized) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		return internalError(err)
	}

	data := dto.TokenResponse{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AuthHandler) Invite(c fiber.Ctx) error {
	var req inviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	invited, err := h.invites.Invite(c.Context(), middleware.ActorFrom(c), usecase.InviteInput{Email: req.Email, Role: req.Role})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Created(c, "Invitation sent", dto.NewUserResponse(invited))
}

func (h *AuthHandler) AcceptInvite(c fiber.Ctx) error {
	var req acceptInviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.AcceptInviteInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
	usr, pair, err := h.invites.AcceptInvite(c.Context(), c.Params("uid"), c.Params("token"), in)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	data := dto.AuthResponse{
		User:         dto.NewUserResponse(usr),
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	}
	return response.Success(c, fiber.StatusOK, "Account activated", data)
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInviteInProgress):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidActivation), errors.Is(err, usecase.ErrAccountActive):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrEmailDelivery):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), nil, err)
	default:
		return commonError(err)
	}
}
