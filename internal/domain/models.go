package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttributeRef is a resolved taxonomy entry. The core never owns these.
type AttributeRef struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind Taxonomy `json:"kind"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"` // percent, 0..100
	FinalPrice  decimal.Decimal `json:"finalPrice"`
	Stock       int             `json:"stock"`
	Height      float64         `json:"height"`
	Width       float64         `json:"width"`
	Length      float64         `json:"length"`
	Weight      float64         `json:"weight"`
	BrandID     string          `json:"brandId"`
	MaterialID  string          `json:"materialId,omitempty"`
	Slug        string          `json:"slug"`
	Images      []string        `json:"images"`
	HasVariants bool            `json:"hasVariants"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

// WithPricing returns a copy with price and discount set and the final price recomputed.
func (p Product) WithPricing(price, discount decimal.Decimal) Product {
	out := p.Clone()
	out.Price = price
	out.Discount = discount
	out.FinalPrice = FinalPrice(price, discount)
	return out
}

func (p Product) WithSlug(slug string) Product {
	out := p.Clone()
	out.Slug = slug
	return out
}

func (p Product) WithVariants(has bool) Product {
	out := p.Clone()
	out.HasVariants = has
	return out
}

func (p Product) Touched(now time.Time) Product {
	out := p.Clone()
	out.UpdatedAt = now
	return out
}

// Dimensions is the physical snapshot a cart line copies from its product.
type Dimensions struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Weight float64 `json:"weight"`
}

func (p Product) Dimensions() Dimensions {
	return Dimensions{Height: p.Height, Width: p.Width, Length: p.Length, Weight: p.Weight}
}

var hundred = decimal.NewFromInt(100)

// FinalPrice is price - price*(discount/100), rounded to cents.
func FinalPrice(price, discount decimal.Decimal) decimal.Decimal {
	off := price.Mul(discount).Div(hundred)
	return price.Sub(off).Round(2)
}

// Link joins a product to a color, size or category.
type Link struct {
	ProductID   string   `json:"productId"`
	AttributeID string   `json:"attributeId"`
	Kind        Taxonomy `json:"kind"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
