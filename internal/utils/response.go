package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every failed request. Code is stable and
// machine-readable; Error is for people.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func ErrorWithCode(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message, Code: code})
}

// BadRequest rejects malformed path or query input that never reached a service.
func BadRequest(c *fiber.Ctx, message string) error {
	return ErrorWithCode(c, fiber.StatusBadRequest, "INVALID_INPUT", message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return ErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return ErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", message)
}
