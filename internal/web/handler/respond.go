// Package handler holds shared web handler types: the API response envelope
// and the helpers producing it.
package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Metadata carries response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// ErrorBody carries the error part of a failed response.
type ErrorBody struct {
	Message string `json:"message"`
}

// Response is the envelope wrapping every API payload.
type Response struct {
	Success  bool       `json:"success"`
	Data     any        `json:"data"`
	Error    *ErrorBody `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// Success sends a 200 response with the payload wrapped in the envelope.
func Success(c *fiber.Ctx, data any) error {
	return c.JSON(Response{
		Success:  true,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// Error sends an error response with the given status and message.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{
		Success:  false,
		Error:    &ErrorBody{Message: message},
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// UserID returns the authenticated user id placed in locals by the auth
// middleware.
func UserID(c *fiber.Ctx) uint64 {
	id, _ := c.Locals(UserIDLocal).(uint64)
	return id
}
