package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type lineBody struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=1000"`
	ColorID   string `json:"colorId" validate:"max=64"`
	SizeID    string `json:"sizeId" validate:"max=64"`
}

func (b lineBody) request() services.LineRequest {
	return services.LineRequest{ProductID: b.ProductID, Quantity: b.Quantity, ColorID: b.ColorID, SizeID: b.SizeID}
}

type createCartBody struct {
	UserID string     `json:"userId" validate:"required,max=64"`
	Items  []lineBody `json:"items" validate:"required,min=1,max=100,dive"`
}

type quantityBody struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=1000"`
}

// cartView is the wire shape of a cart with its computed totals.
type cartView struct {
	domain.Cart
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

func view(c domain.Cart) cartView {
	return cartView{Cart: c, Total: c.Total().StringFixed(2), ItemCount: c.ItemCount()}
}

func userParam(c *fiber.Ctx) (string, bool) { return validate.ID(c.Params("userId")) }

// POST /api/v1/carts
func (h *CartHandler) Create(c *fiber.Ctx) error {
	var b createCartBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "cart.create", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "cart.create", err)
	}
	items := make([]services.LineRequest, len(b.Items))
	for i, it := range b.Items {
		items[i] = it.request()
	}
	cart, err := h.Cart.CreateCart(c.UserContext(), services.CreateCartRequest{UserID: b.UserID, Items: items})
	if err != nil {
		return fail(c, "cart.create", err, map[string]any{"user": b.UserID})
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "cart.create", map[string]any{"user": cart.UserID, "lines": len(cart.Items)})
	return c.JSON(view(cart))
}

// GET /api/v1/carts/:userId
func (h *CartHandler) View(c *fiber.Ctx) error {
	user, ok := userParam(c)
	if !ok {
		return badRequest(c, "cart.view", errBadUser)
	}
	cart, err := h.Cart.GetCart(c.UserContext(), user)
	if err != nil {
		return fail(c, "cart.view", err, map[string]any{"user": user})
	}
	return c.JSON(view(cart))
}

// POST /api/v1/carts/:userId/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	user, ok := userParam(c)
	if !ok {
		return badRequest(c, "cart.add", errBadUser)
	}
	var b lineBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "cart.add", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "cart.add", err)
	}
	cart, err := h.Cart.AddItemToCart(c.UserContext(), user, b.request())
	if err != nil {
		return fail(c, "cart.add", err, map[string]any{"user": user, "product": b.ProductID})
	}
	applog.Audit(c, "cart.add", map[string]any{"user": user, "product": b.ProductID, "qty": b.Quantity})
	return c.JSON(view(cart))
}

// PATCH /api/v1/carts/:userId/items/:itemId
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	user, ok := userParam(c)
	if !ok {
		return badRequest(c, "cart.update", errBadUser)
	}
	var b quantityBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "cart.update", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "cart.update", err)
	}
	item := c.Params("itemId")
	cart, err := h.Cart.UpdateItemQuantity(c.UserContext(), user, item, b.Quantity)
	if err != nil {
		return fail(c, "cart.update", err, map[string]any{"user": user, "item": item})
	}
	applog.Audit(c, "cart.update", map[string]any{"user": user, "item": item, "qty": b.Quantity})
	return c.JSON(view(cart))
}

// DELETE /api/v1/carts/:userId/items/:itemId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	user, ok := userParam(c)
	if !ok {
		return badRequest(c, "cart.remove", errBadUser)
	}
	item := c.Params("itemId")
	cart, err := h.Cart.RemoveItem(c.UserContext(), user, item)
	if err != nil {
		return fail(c, "cart.remove", err, map[string]any{"user": user, "item": item})
	}
	applog.Audit(c, "cart.remove", map[string]any{"user": user, "item": item})
	return c.JSON(view(cart))
}
