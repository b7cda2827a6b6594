package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDKey = "requestid"

// RequestID tags every request with an X-Request-ID, reusing the caller's
// when one was sent.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDKey, id)
		c.Set(fiber.HeaderXRequestID, id)
		return c.Next()
	}
}

// HTTPMetrics receives one observation per finished request.
type HTTPMetrics interface {
	RecordHTTPRequest(method, path string, status int, d time.Duration)
}

// RequestLogger records request metrics and logs failed requests through logrus.
func RequestLogger(metrics HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app's error handler write the response first
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		// labelled by route pattern, e.g. /api/wallet/:user_id
		path := c.Route().Path
		if metrics != nil {
			metrics.RecordHTTPRequest(c.Method(), path, status, elapsed)
		}

		fields := log.Fields{
			"request_id": c.Locals(RequestIDKey),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    elapsed.String(),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.WithFields(fields).Error("request failed")
		case status >= fiber.StatusBadRequest:
			log.WithFields(fields).Debug("request rejected")
		}
		return nil
	}
}
