package services

import (
	"context"

	"storefront/internal/domain"
)

const lowStockThreshold = 5

type AvailabilityService struct {
	Lines *CartLineResolver
}

func NewAvailabilityService(lines *CartLineResolver) *AvailabilityService {
	return &AvailabilityService{Lines: lines}
}

// Check converts the stock of the product or variant req points at into
// IN_STOCK / LOW_STOCK / OUT_OF_STOCK. Quantity is ignored.
func (s *AvailabilityService) Check(ctx context.Context, req LineRequest) (domain.Availability, error) {
	t, err := s.Lines.target(ctx, req.normalized())
	if err != nil {
		return domain.Availability{}, err
	}
	qty := t.available
	if t.variant != nil && t.variant.Status != domain.VariantActive {
		qty = 0
	}
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}
