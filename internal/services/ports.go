package services

import (
	"context"

	"storefront/internal/domain"
)

// The core talks to storage only through these contracts. Lookups report
// absence with ok=false; a non-nil error always means the store itself failed.

type TaxonomyLookup interface {
	FindByID(ctx context.Context, kind domain.Taxonomy, id string) (domain.AttributeRef, bool, error)
}

type ProductStore interface {
	Create(ctx context.Context, p domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, bool, error)
	FindBySlug(ctx context.Context, slug string) (domain.Product, bool, error)
	Save(ctx context.Context, p domain.Product) error
}

type VariantStore interface {
	Create(ctx context.Context, v domain.ProductVariant) error
	FindByID(ctx context.Context, id string) (domain.ProductVariant, bool, error)
	FindByProductID(ctx context.Context, productID string) ([]domain.ProductVariant, error)
	Update(ctx context.Context, v domain.ProductVariant) error
	Delete(ctx context.Context, id string) error
}

type AttributeLinkStore interface {
	Create(ctx context.Context, l domain.Link) error
	FindByProductID(ctx context.Context, productID string) ([]domain.Link, error)
	DeleteByProduct(ctx context.Context, productID string, kind domain.Taxonomy) error
}

type CartStore interface {
	FindByUserID(ctx context.Context, userID string) (domain.Cart, bool, error)
	Create(ctx context.Context, c domain.Cart) error
	Save(ctx context.Context, c domain.Cart) error
}

// Transactor runs fn so that every store call made with the ctx it receives
// commits or rolls back together.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
