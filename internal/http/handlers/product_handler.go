package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

type createProductBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description" validate:"max=4000"`
	SKU         string          `json:"sku" validate:"max=64"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock"`
	Height      float64         `json:"height"`
	Width       float64         `json:"width"`
	Length      float64         `json:"length"`
	Weight      float64         `json:"weight"`
	BrandID     string          `json:"brandId"`
	MaterialID  string          `json:"materialId"`
	Images      []string        `json:"images" validate:"max=20,dive,max=512"`
	Colors      []string        `json:"colors" validate:"max=50"`
	Sizes       []string        `json:"sizes" validate:"max=50"`
	Categories  []string        `json:"categories" validate:"max=50"`
}

type editProductBody struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description" validate:"omitempty,max=4000"`
	SKU         *string          `json:"sku" validate:"omitempty,max=64"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	Stock       *int             `json:"stock"`
	Height      *float64         `json:"height"`
	Width       *float64         `json:"width"`
	Length      *float64         `json:"length"`
	Weight      *float64         `json:"weight"`
	BrandID     *string          `json:"brandId"`
	MaterialID  *string          `json:"materialId"`
	Images      *[]string        `json:"images" validate:"omitempty,max=20,dive,max=512"`
	Colors      *[]string        `json:"colors" validate:"omitempty,max=50"`
	Sizes       *[]string        `json:"sizes" validate:"omitempty,max=50"`
	Categories  *[]string        `json:"categories" validate:"omitempty,max=50"`
}

type variantBody struct {
	SKU    *string          `json:"sku" validate:"omitempty,max=64"`
	Stock  *int             `json:"stock"`
	Price  *decimal.Decimal `json:"price"`
	Images []string         `json:"images" validate:"omitempty,max=20,dive,max=512"`
	Status *string          `json:"status"`
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var b createProductBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "product.create", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "product.create", err)
	}
	d, err := h.Products.CreateProduct(c.UserContext(), services.CreateProductRequest{
		Name: b.Name, Description: b.Description, SKU: b.SKU,
		Price: b.Price, Discount: b.Discount, Stock: b.Stock,
		Height: b.Height, Width: b.Width, Length: b.Length, Weight: b.Weight,
		BrandID: b.BrandID, MaterialID: b.MaterialID, Images: b.Images,
		Colors: b.Colors, Sizes: b.Sizes, Categories: b.Categories,
	})
	if err != nil {
		return fail(c, "product.create", err, nil)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "product.create", map[string]any{"product": d.ID, "variants": len(d.Variants)})
	return c.JSON(d)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "product.get", domain.NotFound("Product not found: "+c.Params("id")), nil)
	}
	d, err := h.Products.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "product.get", err, map[string]any{"product": id})
	}
	return c.JSON(d)
}

// PATCH /api/v1/products/:id
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "product.edit", domain.NotFound("Product not found: "+c.Params("id")), nil)
	}
	var b editProductBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "product.edit", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "product.edit", err)
	}
	d, err := h.Products.EditProduct(c.UserContext(), id, services.EditProductRequest{
		Name: b.Name, Description: b.Description, SKU: b.SKU,
		Price: b.Price, Discount: b.Discount, Stock: b.Stock,
		Height: b.Height, Width: b.Width, Length: b.Length, Weight: b.Weight,
		BrandID: b.BrandID, MaterialID: b.MaterialID, Images: b.Images,
		Colors: b.Colors, Sizes: b.Sizes, Categories: b.Categories,
	})
	if err != nil {
		return fail(c, "product.edit", err, map[string]any{"product": id})
	}
	applog.Audit(c, "product.edit", map[string]any{"product": id, "variants": len(d.Variants)})
	return c.JSON(d)
}

// PATCH /api/v1/variants/:id
func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, "variant.update", domain.NotFound("Variant not found: "+c.Params("id")), nil)
	}
	var b variantBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "variant.update", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "variant.update", err)
	}
	u := domain.VariantUpdate{SKU: b.SKU, Stock: b.Stock, Price: b.Price, Images: b.Images}
	if b.Status != nil {
		st := domain.VariantStatus(*b.Status)
		u.Status = &st
	}
	v, err := h.Products.UpdateVariant(c.UserContext(), id, u)
	if err != nil {
		return fail(c, "variant.update", err, map[string]any{"variant": id})
	}
	applog.Audit(c, "variant.update", map[string]any{"variant": id, "stock": v.Stock, "status": v.Status})
	return c.JSON(v)
}
