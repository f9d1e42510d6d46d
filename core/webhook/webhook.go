package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Notifier propagates imports to a downstream service.
type Notifier interface {
	// Propagate notifies downstream and reports whether it succeeded. It never fails
	// the caller.
	Propagate(ctx context.Context) bool
}

// Client posts to the configured webhook endpoint using the fiber HTTP client.
type Client struct {
	endpoint string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient creates a webhook client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{endpoint: cfg.Endpoint, timeout: timeout, logger: logger}
}

// Propagate implements Notifier. Without an endpoint it does nothing and returns false.
func (c *Client) Propagate(ctx context.Context) bool {
	if c.endpoint == "" {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	agent := fiber.Post(c.endpoint)
	agent.Timeout(c.timeout)
	agent.JSON(fiber.Map{"event": "borgs_imported", "at": time.Now().UTC()})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		c.logger.Warn("Webhook propagation failed", zap.String("endpoint", c.endpoint), zap.Errors("errors", errs))
		return false
	}
	if code < 200 || code >= 300 {
		c.logger.Warn("Webhook propagation rejected", zap.String("endpoint", c.endpoint), zap.Int("status", code))
		return false
	}
	return true
}

// Ping issues a GET to url and returns an error on transport failure or a non 2xx status.
func Ping(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Get(url)
	agent.Timeout(timeout)

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("ping %s failed: %w", url, errs[0])
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("ping %s returned status %d", url, code)
	}
	return nil
}
