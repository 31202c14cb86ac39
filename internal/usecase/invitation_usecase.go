package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"acms/internal/database"
	"acms/internal/domain/policy"
	"acms/internal/domain/profile"
	"acms/internal/domain/user"
	"acms/internal/infrastructure/mailer"
	"acms/internal/logger"
	"acms/internal/pkg/jwt"
	"acms/internal/repository"
	ucauth "acms/internal/usecase/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InviteInput struct {
	Email string
	Role  string
}

type AcceptInviteInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type InvitationUsecase interface {
	Invite(ctx context.Context, actor user.Actor, in InviteInput) (user.User, error)
	AcceptInvite(ctx context.Context, uid, token string, in AcceptInviteInput) (user.User, TokenPair, error)
}

type InvitationConfig struct {
	FrontendURL    string
	AllowedDomains []string
}

type Invitation struct {
	users    user.Repository
	profiles repository.DeveloperProfileRepository
	tx       database.Transactor
	jwt      jwt.Service
	mail     mailer.Sender
	cache    Cache
	cfg      InvitationConfig
	logger   *zap.Logger
}

func NewInvitationUsecase(
	users user.Repository,
	profiles repository.DeveloperProfileRepository,
	tx database.Transactor,
	jwtSvc jwt.Service,
	mail mailer.Sender,
	cache Cache,
	cfg InvitationConfig,
	logger *zap.Logger,
) *Invitation {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Invitation{users: users, profiles: profiles, tx: tx, jwt: jwtSvc, mail: mail, cache: cache, cfg: cfg, logger: logger}
}

// Invite creates an inactive account and mails its activation link. The
// account is removed again when the mail cannot be delivered.
func (u *Invitation) Invite(ctx context.Context, actor user.Actor, in InviteInput) (user.User, error) {
	if !policy.IsAdmin(actor) {
		return user.User{}, ErrForbidden
	}

	email, err := u.validateEmail(in.Email)
	if err != nil {
		return user.User{}, err
	}
	role, err := user.ParseRole(in.Role)
	if err != nil {
		return user.User{}, invalid("role", "Role must be one of ADMIN, PROJECT MANAGER or DEVELOPER")
	}

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailTaken
	}

	invited := user.User{ID: uuid.New(), Email: email, Role: role}
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.users.Create(ctx, invited); err != nil {
			return err
		}
		if role == user.RoleDeveloper {
			return u.profiles.Create(ctx, profile.New(invited.ID))
		}
		return nil
	})
	log := logger.FromContext(ctx, u.logger)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailTaken
		}
		log.Error("create invited user", zap.String("email", email), zap.Error(err))
		return user.User{}, ErrInternal
	}

	if err := u.sendInvitation(ctx, invited); err != nil {
		log.Error("send invitation", zap.String("email", email), zap.Error(err))
		if delErr := u.users.Delete(context.WithoutCancel(ctx), invited.ID); delErr != nil {
			log.Error("remove uninvited user", zap.String("user_id", invited.ID.String()), zap.Error(delErr))
		}
		return user.User{}, ErrEmailDelivery
	}

	created, err := u.users.GetByID(ctx, invited.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return ucauth.Sanitize(created), nil
}

func (u *Invitation) sendInvitation(ctx context.Context, invited user.User) error {
	token, err := u.jwt.GenerateInviteToken(invited.ID, invited.Email)
	if err != nil {
		return fmt.Errorf("sign invite token: %w", err)
	}
	link := fmt.Sprintf("%s/accept-invite/%s/%s", u.cfg.FrontendURL, token, EncodeUID(invited.ID))

	msg, err := mailer.Invitation(invited.Email, mailer.InvitationData{
		Link:        link,
		ExpiryHours: int(u.jwt.InviteExpiry().Hours()),
	})
	if err != nil {
		return err
	}
	if u.mail == nil {
		return errors.New("no mail sender")
	}
	return u.mail.Send(ctx, msg)
}

// AcceptInvite activates the invited account behind uid and token.
func (u *Invitation) AcceptInvite(ctx context.Context, uid, token string, in AcceptInviteInput) (user.User, TokenPair, error) {
	id, ok := DecodeUID(uid)
	if !ok {
		return user.User{}, TokenPair{}, ErrInvalidActivation
	}
	claims, err := u.jwt.ValidateInviteToken(token)
	if err != nil || claims.UserID != id {
		return user.User{}, TokenPair{}, ErrInvalidActivation
	}

	release, ok := acquire(ctx, u.cache, inviteLockKey(id.String()), inviteLockTTL)
	if !ok {
		return user.User{}, TokenPair{}, ErrInviteInProgress
	}
	defer release()

	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, TokenPair{}, ErrInvalidActivation
		}
		return user.User{}, TokenPair{}, ErrInternal
	}
	if usr.IsActive {
		return user.User{}, TokenPair{}, ErrAccountActive
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	switch {
	case firstName == "":
		return user.User{}, TokenPair{}, invalid("first_name", "This field is required")
	case lastName == "":
		return user.User{}, TokenPair{}, invalid("last_name", "This field is required")
	case ucauth.NormalizeEmail(in.Email) == "":
		return user.User{}, TokenPair{}, invalid("email", "This field is required")
	case ucauth.NormalizeEmail(in.Email) != usr.Email:
		return user.User{}, TokenPair{}, invalid("email", "Email does not match the invitation")
	}
	if err := ucauth.ValidatePassword(in.Password); err != nil {
		return user.User{}, TokenPair{}, invalid("password", err.Error())
	}

	hash, err := ucauth.HashPassword(in.Password)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	usr.FirstName = firstName
	usr.LastName = lastName
	usr.PasswordHash = hash
	usr.IsActive = true
	if err := u.users.Update(ctx, usr); err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	pair, err := issueTokens(u.jwt, usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return ucauth.Sanitize(usr), pair, nil
}

func (u *Invitation) validateEmail(raw string) (string, error) {
	email := ucauth.NormalizeEmail(raw)
	if email == "" {
		return "", invalid("email", "This field is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "Enter a valid email address")
	}
	at := strings.LastIndexByte(email, '@')
	if len(u.cfg.AllowedDomains) > 0 && !slices.Contains(u.cfg.AllowedDomains, email[at+1:]) {
		return "", invalid("email", "Email domain is not allowed")
	}
	return email, nil
}

// EncodeUID is the url-safe form of a user id used in activation links.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

func DecodeUID(s string) (uuid.UUID, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(string(b))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
