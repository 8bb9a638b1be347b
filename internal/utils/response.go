package utils

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// APIResponse describes the envelope used by service endpoints such as health.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// DetailResponse is the error body returned by the grading endpoint.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SendSuccess sends a successful JSON envelope with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendRaw writes an already encoded JSON body without an envelope.
func SendRaw(c *fiber.Ctx, body json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}

// SendDetail sends an error body of the form {"detail": message}.
func SendDetail(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(DetailResponse{Detail: message})
}
