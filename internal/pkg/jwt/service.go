package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	Issuer = "aegis"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload of both token types. Refresh tokens carry no email
// or role.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
}

// HMACService signs access and refresh tokens with separate HS256 secrets.
type HMACService struct {
	access  signingKey
	refresh signingKey

	now func() time.Time
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

func (k signingKey) usable() bool { return len(k.secret) > 0 && k.ttl > 0 }

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		access:  signingKey{secret: []byte(accessSecret), ttl: accessExpiresIn},
		refresh: signingKey{secret: []byte(refreshSecret), ttl: refreshExpiresIn},
		now:     time.Now,
	}
}

// GenerateAccessToken issues a short-lived token carrying the user's role,
// which route guards read without a database round trip.
func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Email: email, Role: role, TokenType: TokenTypeAccess})
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(Claims{UserID: userID, TokenType: TokenTypeRefresh})
}

// ValidateToken accepts either token type; the token_type claim selects the
// secret it must be signed with.
func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(t *jwtlib.Token) (any, error) {
		claims, ok := t.Claims.(*Claims)
		if !ok {
			return nil, ErrTokenInvalid
		}
		key, ok := s.keyFor(claims.TokenType)
		if !ok {
			return nil, ErrTokenInvalid
		}
		return key.secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil, tok == nil, !tok.Valid:
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) sign(c Claims) (string, error) {
	key, ok := s.keyFor(c.TokenType)
	if !ok {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(key.ttl)),
		ID:        uuid.NewString(),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(key.secret)
}

func (s *HMACService) keyFor(tokenType string) (signingKey, bool) {
	var k signingKey
	switch tokenType {
	case TokenTypeAccess:
		k = s.access
	case TokenTypeRefresh:
		k = s.refresh
	default:
		return signingKey{}, false
	}
	return k, k.usable()
}
