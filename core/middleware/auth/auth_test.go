package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Use(New(Config{ApiKey: key}))
		app.Post("/borg/1", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) })
		return app
	}

	tests := []struct {
		name   string
		key    string
		header string
		value  string
		want   int
	}{
		{"Header Match", "secret", Header, "secret", fiber.StatusAccepted},
		{"Bearer Match", "secret", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusAccepted},
		{"Wrong Key", "secret", Header, "nope", fiber.StatusUnauthorized},
		{"Missing Key", "secret", "", "", fiber.StatusUnauthorized},
		{"Unconfigured", "", Header, "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/borg/1", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
