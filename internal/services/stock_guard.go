package services

import (
	"fmt"

	"storefront/internal/domain"
)

// CheckStock rejects a request for more units than are available. target is
// "product" or "variant" and only shapes the message.
func CheckStock(target, id string, requested, available int) error {
	if requested > available {
		return domain.InsufficientStock(fmt.Sprintf(
			"Insufficient stock for %s %s: requested %d, available %d", target, id, requested, available))
	}
	return nil
}
