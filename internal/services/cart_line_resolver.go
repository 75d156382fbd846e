package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// LineRequest is one requested cart line. With both ColorID and SizeID set,
// ProductID names a variant rather than a product. VariantID, when set,
// names the variant directly and ProductID is ignored.
type LineRequest struct {
	ProductID string
	VariantID string
	Quantity  int
	ColorID   string
	SizeID    string
}

func (r LineRequest) targetsVariant() bool {
	return r.VariantID != "" || (r.ColorID != "" && r.SizeID != "")
}

// variantID is the id a variant-targeting request names.
func (r LineRequest) variantID() string {
	if r.VariantID != "" {
		return r.VariantID
	}
	return r.ProductID
}

func (r LineRequest) normalized() LineRequest {
	r.ProductID = strings.TrimSpace(r.ProductID)
	r.VariantID = strings.TrimSpace(r.VariantID)
	r.ColorID = strings.TrimSpace(r.ColorID)
	r.SizeID = strings.TrimSpace(r.SizeID)
	return r
}

// LineContext is everything needed to build or grow a cart line.
type LineContext struct {
	ProductID string
	VariantID string
	Quantity  int
	Price     decimal.Decimal
	domain.Dimensions
	ColorID string
	SizeID  string
}

func (l LineContext) Key() domain.LineKey {
	return domain.LineKey{ProductID: l.ProductID, VariantID: l.VariantID, ColorID: l.ColorID, SizeID: l.SizeID}
}

type CartLineResolver struct {
	Products ProductStore
	Variants VariantStore
}

func NewCartLineResolver(products ProductStore, variants VariantStore) *CartLineResolver {
	return &CartLineResolver{Products: products, Variants: variants}
}

// stockTarget is the product or variant whose stock backs a line.
type stockTarget struct {
	kind      string
	id        string
	available int
	variant   *domain.ProductVariant
	product   domain.Product
}

func (r *CartLineResolver) target(ctx context.Context, req LineRequest) (stockTarget, error) {
	if req.targetsVariant() {
		id := req.variantID()
		v, found, err := r.Variants.FindByID(ctx, id)
		if err != nil {
			return stockTarget{}, domain.Infra("find variant", err)
		}
		if !found {
			return stockTarget{}, domain.NotFound("Variant not found: " + id)
		}
		p, err := r.product(ctx, v.ProductID)
		if err != nil {
			return stockTarget{}, err
		}
		return stockTarget{kind: "variant", id: v.ID, available: v.Stock, variant: &v, product: p}, nil
	}
	p, err := r.product(ctx, req.ProductID)
	if err != nil {
		return stockTarget{}, err
	}
	return stockTarget{kind: "product", id: p.ID, available: p.Stock, product: p}, nil
}

func (r *CartLineResolver) product(ctx context.Context, id string) (domain.Product, error) {
	p, found, err := r.Products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, domain.Infra("find product", err)
	}
	if !found {
		return domain.Product{}, domain.NotFound("Product not found: " + id)
	}
	return p, nil
}

// ResolveLine finds what req points at, checks the requested quantity against
// its stock and returns the line payload. Variants take price and stock from
// themselves and dimensions from their parent product.
func (r *CartLineResolver) ResolveLine(ctx context.Context, req LineRequest) (LineContext, error) {
	req = req.normalized()
	if req.Quantity < 1 {
		return LineContext{}, domain.Invalid("Quantity must be greater than zero")
	}
	t, err := r.target(ctx, req)
	if err != nil {
		return LineContext{}, err
	}
	if err := CheckStock(t.kind, t.id, req.Quantity, t.available); err != nil {
		return LineContext{}, err
	}
	line := LineContext{
		ProductID:  t.product.ID,
		Quantity:   req.Quantity,
		Price:      t.product.FinalPrice,
		Dimensions: t.product.Dimensions(),
		ColorID:    req.ColorID,
		SizeID:     req.SizeID,
	}
	if t.variant != nil {
		line.VariantID = t.variant.ID
		line.Price = t.variant.Price
		line.ColorID = t.variant.ColorID
		line.SizeID = t.variant.SizeID
	}
	return line, nil
}
