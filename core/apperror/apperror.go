package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"borg-link/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Reason classifies a failed request.
type Reason int

const (
	None Reason = iota
	SystemError
	NotFound
	BadRequest
	Unauthorized
)

var reasonKeys = map[Reason]string{
	None:         "none",
	SystemError:  "system_error",
	NotFound:     "not_found",
	BadRequest:   "bad_request",
	Unauthorized: "unauthorized",
}

var reasonStatus = map[Reason]int{
	None:         fiber.StatusOK,
	SystemError:  fiber.StatusInternalServerError,
	NotFound:     fiber.StatusNotFound,
	BadRequest:   fiber.StatusBadRequest,
	Unauthorized: fiber.StatusUnauthorized,
}

// String returns the configuration key of the reason.
func (r Reason) String() string {
	if k, ok := reasonKeys[r]; ok {
		return k
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Status returns the HTTP status for the reason.
func (r Reason) Status() int {
	if s, ok := reasonStatus[r]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

// ParseReason resolves a configuration key to a Reason.
func ParseReason(key string) (Reason, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for r, k := range reasonKeys {
		if k == key {
			return r, nil
		}
	}
	return None, fmt.Errorf("unknown failure reason %q", key)
}

// Messages maps each reason to the message returned to clients.
type Messages map[Reason]string

// DefaultMessages returns the built-in message table.
func DefaultMessages() Messages {
	return Messages{
		None:         "",
		SystemError:  "An unexpected error occurred, please try again later",
		NotFound:     "The requested resource was not found",
		BadRequest:   "The request was invalid",
		Unauthorized: "Authentication is required",
	}
}

// ParseOverrides applies "reason=message;reason=message" overrides on top of the
// defaults. Any unknown reason key is an error so misconfiguration fails at startup.
func ParseOverrides(raw string) (Messages, error) {
	msgs := DefaultMessages()
	if strings.TrimSpace(raw) == "" {
		return msgs, nil
	}

	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, msg, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed error message override %q", pair)
		}
		reason, err := ParseReason(key)
		if err != nil {
			return nil, err
		}
		msgs[reason] = strings.TrimSpace(msg)
	}
	return msgs, nil
}

// Keys lists every known reason key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(reasonKeys))
	for _, k := range reasonKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Error is an error carrying a failure reason.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a failure reason.
func New(reason Reason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// ReasonOf extracts the failure reason of err. Fiber errors map by status code and
// anything else is a SystemError.
func ReasonOf(err error) Reason {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return NotFound
		case fiber.StatusBadRequest:
			return BadRequest
		case fiber.StatusUnauthorized:
			return Unauthorized
		}
	}
	return SystemError
}

// Handler returns a fiber.ErrorHandler rendering errors with the configured messages
// and the request ray id as trace code.
func Handler(msgs Messages, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		reason := ReasonOf(err)
		traceCode := rayid.FromCtx(c)

		if reason == SystemError {
			log.Error("Unhandled request error",
				zap.String("ray_id", traceCode),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(reason.Status()).JSON(fiber.Map{
			"error":      msgs[reason],
			"reason":     reason.String(),
			"trace_code": traceCode,
		})
	}
}
