package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/services"
)

func TestAvailability_Product(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cases := []struct {
		stock  int
		status string
	}{
		{6, "IN_STOCK"},
		{5, "IN_STOCK"},
		{4, "LOW_STOCK"},
		{1, "LOW_STOCK"},
		{0, "OUT_OF_STOCK"},
	}
	for i, tc := range cases {
		p := e.create(t, tee(func(r *services.CreateProductRequest) {
			r.Name = "Item " + string(rune('a'+i))
			r.Stock = tc.stock
		}))
		a, err := e.avail.Check(ctx, services.LineRequest{ProductID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.Availability{Status: tc.status, Qty: tc.stock}, a)
	}
}

func TestAvailability_Variant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.create(t, tee(func(r *services.CreateProductRequest) {
		r.Colors = []string{"blue"}
		r.Sizes = []string{"m"}
	}))
	v := p.Variants[0]
	req := services.LineRequest{ProductID: v.ID, ColorID: "blue", SizeID: "m"}

	a, err := e.avail.Check(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.Availability{Status: "IN_STOCK", Qty: 10}, a)

	status := domain.VariantDiscontinued
	_, err = e.products.UpdateVariant(ctx, v.ID, domain.VariantUpdate{Status: &status})
	require.NoError(t, err)
	a, err = e.avail.Check(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, a)

	_, err = e.avail.Check(ctx, services.LineRequest{ProductID: "nope"})
	requireKind(t, err, domain.KindNotFound, "Product not found: nope")
}
