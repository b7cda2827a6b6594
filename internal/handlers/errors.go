package handlers

import (
	"strconv"

	apperrors "sfstore/internal/errors"
	"sfstore/internal/middleware"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// respondError writes err as {"error", "code"}. Internal causes are logged
// and never returned to the client.
func respondError(c *fiber.Ctx, err error) error {
	de := apperrors.Internal(err)
	status := statusFor(de.Kind)
	if status == fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals(middleware.RequestIDKey),
		}).WithError(err).Error("request failed")
	}
	return utils.ErrorWithCode(c, status, de.Code, de.Message)
}

// bind parses the JSON body into dst and runs its validate tags. The first
// failing field becomes the InvalidInput message.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.ErrInvalidInput.Withf("invalid request body")
	}
	if errs := utils.ValidateStruct(dst); len(errs) > 0 {
		return apperrors.ErrInvalidInput.Withf("%s", errs[0].Message)
	}
	return nil
}

// idParam reads a positive numeric path parameter.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
