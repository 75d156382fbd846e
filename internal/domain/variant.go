package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VariantStatus string

const (
	VariantActive       VariantStatus = "ACTIVE"
	VariantInactive     VariantStatus = "INACTIVE"
	VariantDiscontinued VariantStatus = "DISCONTINUED"
)

func ParseVariantStatus(s string) (VariantStatus, bool) {
	switch VariantStatus(s) {
	case VariantActive, VariantInactive, VariantDiscontinued:
		return VariantStatus(s), true
	}
	return "", false
}

type ProductVariant struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	ColorID   string          `json:"colorId,omitempty"`
	SizeID    string          `json:"sizeId,omitempty"`
	SKU       string          `json:"sku"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	Status    VariantStatus   `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AxisKey identifies a variant inside its product's matrix.
type AxisKey struct {
	ColorID string
	SizeID  string
}

func (v ProductVariant) Key() AxisKey { return AxisKey{ColorID: v.ColorID, SizeID: v.SizeID} }

func (v ProductVariant) Clone() ProductVariant {
	v.Images = append([]string(nil), v.Images...)
	return v
}

// VariantUpdate carries the fields a caller supplied; nil means unchanged.
type VariantUpdate struct {
	SKU    *string
	Stock  *int
	Price  *decimal.Decimal
	Images []string
	Status *VariantStatus
}

// Apply returns an updated copy of v.
func (v ProductVariant) Apply(u VariantUpdate, now time.Time) ProductVariant {
	out := v.Clone()
	if u.SKU != nil {
		out.SKU = *u.SKU
	}
	if u.Stock != nil {
		out.Stock = *u.Stock
	}
	if u.Price != nil {
		out.Price = *u.Price
	}
	if u.Images != nil {
		out.Images = append([]string(nil), u.Images...)
	}
	if u.Status != nil {
		out.Status = *u.Status
	}
	out.UpdatedAt = now
	return out
}
