package utils

import (
	"sfstore/internal/models"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// SetClaims attaches verified token claims to the request.
func SetClaims(c *fiber.Ctx, claims *models.UserClaims) {
	c.Locals(claimsKey, claims)
}

// ClaimsFrom returns the claims the auth middleware attached, if any.
func ClaimsFrom(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.UserClaims)
	return claims, ok && claims != nil
}
