package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

const genericFailure = "Something went wrong. Please try again."

var errBadUser = errors.New("user id must be 1-64 letters, digits, '-' or '_'")

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindValidation, domain.KindDuplicate:
		return fiber.StatusBadRequest
	case domain.KindInsufficientStock:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail maps a core error onto a JSON response. Infrastructure details stay in
// the log; every other kind is returned to the caller verbatim.
func fail(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status == fiber.StatusInternalServerError {
		c.Status(status)
		applog.Error(c, action+".fail", err, fields)
		return c.JSON(fiber.Map{"error": genericFailure, "kind": kind})
	}
	c.Status(status)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["kind"] = string(kind)
	fields["error"] = err.Error()
	applog.Security(c, action+".reject", fields)
	return c.JSON(fiber.Map{"error": err.Error(), "kind": kind})
}

// badRequest rejects a malformed body before it reaches the core.
func badRequest(c *fiber.Ctx, action string, err error) error {
	c.Status(fiber.StatusBadRequest)
	applog.Security(c, "validation.fail", map[string]any{"action": action, "error": err.Error()})
	return c.JSON(fiber.Map{"error": "invalid request: " + err.Error(), "kind": domain.KindValidation})
}

// ErrorHandler is the app-wide fallback; it never leaks internal messages.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericFailure})
}
