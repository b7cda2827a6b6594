// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AuthMiddleware validates bearer tokens and stores their claims in the
// request context.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// Handler rejects requests without a valid, unexpired bearer token.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), m.secret)
	if err != nil {
		log.WithError(err).WithField("path", c.Path()).Debug("token rejected")
		return utils.Unauthorized(c, "invalid token")
	}

	utils.SetClaims(c, claims)
	return c.Next()
}

// AdminAuthMiddleware lets only admin claims through. It must run after
// AuthMiddleware.Handler.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := utils.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.IsAdmin() {
		log.WithFields(log.Fields{
			"user_id": claims.UserID,
			"role":    claims.Role,
			"path":    c.Path(),
		}).Warn("admin route denied")
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}
