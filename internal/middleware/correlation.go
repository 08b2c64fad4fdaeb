package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	correlationHeader    = "X-Correlation-ID"
	maxCorrelationLength = 128
)

type correlationIDKey struct{}

// CorrelationID tags every request with an identifier. A caller-supplied
// X-Correlation-ID or X-Request-ID is reused when it is printable and short.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := acceptCorrelation(c.Get(correlationHeader))
		if id == "" {
			id = acceptCorrelation(c.Get(fiber.HeaderXRequestID))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set(correlationHeader, id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationIDKey{}, id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	id, _ := c.UserContext().Value(correlationIDKey{}).(string)
	return id
}

func acceptCorrelation(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || len(value) > maxCorrelationLength {
		return ""
	}
	for _, r := range value {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return value
}
