package services

import (
	"time"

	"storefront/internal/domain"
)

// AxisPairs lists the (color, size) combinations a product sells, colors
// outer and sizes inner. With one axis empty each value of the other stands
// alone; with both empty there are none.
func AxisPairs(colorIDs, sizeIDs []string) []domain.AxisKey {
	switch {
	case len(colorIDs) > 0 && len(sizeIDs) > 0:
		out := make([]domain.AxisKey, 0, len(colorIDs)*len(sizeIDs))
		for _, c := range colorIDs {
			for _, s := range sizeIDs {
				out = append(out, domain.AxisKey{ColorID: c, SizeID: s})
			}
		}
		return out
	case len(colorIDs) > 0:
		out := make([]domain.AxisKey, 0, len(colorIDs))
		for _, c := range colorIDs {
			out = append(out, domain.AxisKey{ColorID: c})
		}
		return out
	case len(sizeIDs) > 0:
		out := make([]domain.AxisKey, 0, len(sizeIDs))
		for _, s := range sizeIDs {
			out = append(out, domain.AxisKey{SizeID: s})
		}
		return out
	}
	return nil
}

// GenerateVariants builds one ACTIVE variant per axis pair, seeded from the
// product's current price, stock, sku and images.
func GenerateVariants(p domain.Product, colorIDs, sizeIDs []string, newID func() string, now time.Time) []domain.ProductVariant {
	pairs := AxisPairs(colorIDs, sizeIDs)
	out := make([]domain.ProductVariant, 0, len(pairs))
	for _, k := range pairs {
		out = append(out, newVariant(p, k, newID(), now))
	}
	return out
}

func newVariant(p domain.Product, k domain.AxisKey, id string, now time.Time) domain.ProductVariant {
	return domain.ProductVariant{
		ID:        id,
		ProductID: p.ID,
		ColorID:   k.ColorID,
		SizeID:    k.SizeID,
		SKU:       p.SKU,
		Stock:     p.Stock,
		Price:     p.Price,
		Images:    append([]string(nil), p.Images...),
		Status:    domain.VariantActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MatrixDiff is the outcome of reconciling stored variants with a new matrix.
type MatrixDiff struct {
	Keep   []domain.ProductVariant
	Create []domain.ProductVariant
	Remove []domain.ProductVariant
}

// ReconcileVariants keeps variants whose pair is still wanted, generates the
// missing pairs and marks the rest for removal. Kept variants retain their
// own stock, price and sku.
func ReconcileVariants(p domain.Product, existing []domain.ProductVariant, colorIDs, sizeIDs []string, newID func() string, now time.Time) MatrixDiff {
	byKey := make(map[domain.AxisKey]domain.ProductVariant, len(existing))
	for _, v := range existing {
		byKey[v.Key()] = v
	}
	var d MatrixDiff
	wanted := make(map[domain.AxisKey]struct{})
	for _, k := range AxisPairs(colorIDs, sizeIDs) {
		wanted[k] = struct{}{}
		if v, ok := byKey[k]; ok {
			d.Keep = append(d.Keep, v)
			continue
		}
		d.Create = append(d.Create, newVariant(p, k, newID(), now))
	}
	for _, v := range existing {
		if _, ok := wanted[v.Key()]; !ok {
			d.Remove = append(d.Remove, v)
		}
	}
	return d
}
