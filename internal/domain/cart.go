package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single active cart of a user.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Height    float64         `json:"height"`
	Width     float64         `json:"width"`
	Length    float64         `json:"length"`
	Weight    float64         `json:"weight"`
	ColorID   string          `json:"colorId,omitempty"`
	SizeID    string          `json:"sizeId,omitempty"`
}

// LineKey is the per-cart identity of a line. A variant line and a plain
// product line never share a key, whatever their color/size tags.
type LineKey struct {
	ProductID string
	VariantID string
	ColorID   string
	SizeID    string
}

func (it CartItem) Key() LineKey {
	return LineKey{ProductID: it.ProductID, VariantID: it.VariantID, ColorID: it.ColorID, SizeID: it.SizeID}
}

func (it CartItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (c Cart) Clone() Cart {
	c.Items = append([]CartItem(nil), c.Items...)
	return c
}

// Find returns the index of the line with key k, or -1.
func (c Cart) Find(k LineKey) int {
	for i, it := range c.Items {
		if it.Key() == k {
			return i
		}
	}
	return -1
}

func (c Cart) ItemByID(id string) (CartItem, int, bool) {
	for i, it := range c.Items {
		if it.ID == id {
			return it, i, true
		}
	}
	return CartItem{}, -1, false
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
