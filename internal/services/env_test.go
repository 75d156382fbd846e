package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

// env is a fully wired core over an in-memory sqlite seeded with the demo
// taxonomy (brands acme/northwind, colors red/blue/black, sizes s/m/l, ...).
type env struct {
	db       *sqlx.DB
	products *services.ProductService
	carts    *services.CartService
	avail    *services.AvailabilityService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	prodRepo := repos.NewProductRepo(db)
	varRepo := repos.NewVariantRepo(db)
	tx := repos.NewTransactor(db)
	lines := services.NewCartLineResolver(prodRepo, varRepo)
	return &env{
		db: db,
		products: services.NewProductService(
			services.NewAttributeResolver(repos.NewTaxonomyRepo(db)),
			prodRepo, varRepo, repos.NewLinkRepo(db), tx),
		carts: services.NewCartService(lines, repos.NewCartRepo(db), tx),
		avail: services.NewAvailabilityService(lines),
	}
}

func (e *env) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func tee(mod func(*services.CreateProductRequest)) services.CreateProductRequest {
	req := services.CreateProductRequest{
		Name:    "Basic Tee",
		SKU:     "TEE-1",
		Price:   decimal.NewFromInt(100),
		Stock:   10,
		Height:  1,
		Width:   30,
		Length:  40,
		Weight:  0.2,
		BrandID: "acme",
		Images:  []string{"tee.jpg"},
	}
	if mod != nil {
		mod(&req)
	}
	return req
}

func (e *env) create(t *testing.T, req services.CreateProductRequest) services.ProductDetail {
	t.Helper()
	d, err := e.products.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	return d
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "error: %v", err)
	require.Equal(t, msg, err.Error())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
