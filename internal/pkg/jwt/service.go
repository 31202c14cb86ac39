package jwt

import (
	"errors"
	"time"

	"acms/internal/config"
	"acms/internal/domain/user"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeInvite  = "invite"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(u user.User) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	GenerateInviteToken(userID uuid.UUID, email string) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	ValidateInviteToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
	InviteExpiry() time.Duration
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// HMACService signs each token type with its own secret, so a token is only
// ever accepted as the type it was issued for.
type HMACService struct {
	keys map[string]signingKey
	now  func() time.Time
}

func NewHMACService(cfg config.JWTConfig) *HMACService {
	return &HMACService{
		keys: map[string]signingKey{
			TokenTypeAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			TokenTypeRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
			TokenTypeInvite:  {secret: []byte(cfg.InviteSecret), ttl: cfg.InviteTTL},
		},
		now: time.Now,
	}
}

// Actor turns verified access claims into the request identity. Claims with
// an unknown role still authenticate but match no role predicate.
func (c Claims) Actor() user.Actor {
	role, _ := user.ParseRole(c.Role)
	return user.Actor{ID: c.UserID, Email: c.Email, Role: role, Authenticated: true}
}

func (s *HMACService) GenerateAccessToken(u user.User) (string, error) {
	return s.sign(Claims{UserID: u.ID, Email: u.Email, Role: u.Role.String(), TokenType: TokenTypeAccess})
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(Claims{UserID: userID, TokenType: TokenTypeRefresh})
}

func (s *HMACService) GenerateInviteToken(userID uuid.UUID, email string) (string, error) {
	return s.sign(Claims{UserID: userID, Email: email, TokenType: TokenTypeInvite})
}

func (s *HMACService) InviteExpiry() time.Duration {
	return s.keys[TokenTypeInvite].ttl
}

// ValidateToken accepts session tokens: access or refresh.
func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	return s.parseAny(tokenString, TokenTypeAccess, TokenTypeRefresh)
}

func (s *HMACService) ValidateInviteToken(tokenString string) (Claims, error) {
	return s.parseAny(tokenString, TokenTypeInvite)
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) sign(c Claims) (string, error) {
	key, ok := s.keys[c.TokenType]
	if !ok || len(key.secret) == 0 || key.ttl <= 0 {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(key.ttl)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(key.secret)
}

// parseAny tries the key of every listed type. Expiry is only reported when
// the signature matched.
func (s *HMACService) parseAny(tokenString string, types ...string) (Claims, error) {
	expired := false
	for _, t := range types {
		c, err := s.parse(tokenString, t)
		if err == nil {
			return c, nil
		}
		if errors.Is(err, ErrTokenExpired) {
			expired = true
		}
	}
	if expired {
		return Claims{}, ErrTokenExpired
	}
	return Claims{}, ErrTokenInvalid
}

func (s *HMACService) parse(tokenString, tokenType string) (Claims, error) {
	key, ok := s.keys[tokenType]
	if !ok || len(key.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	if _, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return key.secret, nil
	}); err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if c.TokenType != tokenType {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
