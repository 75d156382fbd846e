package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AvailabilityHandler struct {
	Avail *services.AvailabilityService
}

// GET /api/v1/availability?productId=..&colorId=..&sizeId=..
func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Query("productId"))
	if !ok {
		return fail(c, "availability.check", domain.Invalid("productId is required"), nil)
	}
	color, okC := validate.OptionalID(c.Query("colorId"))
	size, okS := validate.OptionalID(c.Query("sizeId"))
	if !okC || !okS {
		return fail(c, "availability.check", domain.Invalid("Invalid colorId or sizeId"), nil)
	}
	a, err := h.Avail.Check(c.UserContext(), services.LineRequest{ProductID: pid, ColorID: color, SizeID: size})
	if err != nil {
		return fail(c, "availability.check", err, map[string]any{"product": pid})
	}
	return c.JSON(a)
}
