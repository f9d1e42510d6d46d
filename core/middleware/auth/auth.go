package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header is the request header carrying the API key.
const Header = "X-API-Key"

// Config holds the API key middleware settings.
type Config struct {
	// ApiKey is the expected key. An empty key rejects every request.
	ApiKey string
}

// New returns a middleware that rejects requests without a matching API key.
// The key is read from the X-API-Key header or a Bearer token.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)

	return func(c *fiber.Ctx) error {
		key := c.Get(Header)
		if key == "" {
			if authz := c.Get(fiber.HeaderAuthorization); len(authz) > 7 && authz[:7] == "Bearer " {
				key = authz[7:]
			}
		}

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}
