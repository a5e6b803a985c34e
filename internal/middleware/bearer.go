package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/auth"
	"github.com/weight-pals/weight_pals/internal/revocation"
)

// Authenticator verifies a bearer token including its revocation status.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// BearerAuth rejects requests without a valid, unrevoked access token and
// exposes the user id and raw token to downstream handlers.
func BearerAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		if tokenStr == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := a.Authenticate(c.UserContext(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, revocation.ErrUnavailable):
				return fiber.NewError(http.StatusServiceUnavailable, "token revocation store unavailable")
			case errors.Is(err, auth.ErrTokenRevoked):
				return fiber.NewError(http.StatusUnauthorized, "token revoked")
			case errors.Is(err, auth.ErrTokenExpired):
				return fiber.NewError(http.StatusUnauthorized, "token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				return fiber.NewError(http.StatusUnauthorized, "invalid token")
			default:
				return fiber.NewError(http.StatusInternalServerError, "token check failed")
			}
		}

		c.Locals(auth.LocalUserID, claims.Subject)
		c.Locals(auth.LocalToken, tokenStr)
		return c.Next()
	}
}
