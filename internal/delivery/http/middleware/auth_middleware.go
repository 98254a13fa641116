package middleware

import (
	"errors"
	"strings"

	"aegis/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const ctxPrincipalKey = "principal"

// Principal is the authenticated caller, taken from a verified access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware requires an access token in the Authorization header. Refresh
// tokens are rejected.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		case err != nil, m.jwt.IsRefreshToken(claims):
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		SetPrincipal(c, Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole must run after Middleware. It rejects callers whose token role
// is not one of roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c fiber.Ctx) error {
		p, _ := PrincipalFromCtx(c)
		if _, ok := allowed[p.Role]; !ok {
			return NewAppError(fiber.StatusForbidden, "Insufficient role", nil, nil)
		}
		return c.Next()
	}
}

func SetPrincipal(c fiber.Ctx, p Principal) {
	c.Locals(ctxPrincipalKey, p)
}

func PrincipalFromCtx(c fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(ctxPrincipalKey).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}

func UserIDFromCtx(c fiber.Ctx) (uuid.UUID, bool) {
	p, ok := PrincipalFromCtx(c)
	return p.UserID, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
