package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestAxisPairs(t *testing.T) {
	assert.Equal(t, []domain.AxisKey{
		{ColorID: "c1", SizeID: "s1"}, {ColorID: "c1", SizeID: "s2"}, {ColorID: "c1", SizeID: "s3"},
		{ColorID: "c2", SizeID: "s1"}, {ColorID: "c2", SizeID: "s2"}, {ColorID: "c2", SizeID: "s3"},
	}, AxisPairs([]string{"c1", "c2"}, []string{"s1", "s2", "s3"}))
	assert.Equal(t, []domain.AxisKey{{ColorID: "c1"}, {ColorID: "c2"}}, AxisPairs([]string{"c1", "c2"}, nil))
	assert.Equal(t, []domain.AxisKey{{SizeID: "s1"}}, AxisPairs(nil, []string{"s1"}))
	assert.Empty(t, AxisPairs(nil, nil))
}

func TestGenerateVariants(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := domain.Product{ID: "p1", SKU: "SKU", Stock: 7, Images: []string{"a.png"}}.
		WithPricing(decimal.NewFromInt(50), decimal.NewFromInt(50))

	vs := GenerateVariants(p, []string{"c1"}, []string{"s1", "s2"}, seqIDs("v"), now)
	require.Len(t, vs, 2)
	assert.Equal(t, "v1", vs[0].ID)
	assert.Equal(t, "v2", vs[1].ID)
	for _, v := range vs {
		assert.Equal(t, "p1", v.ProductID)
		assert.True(t, v.Price.Equal(decimal.NewFromInt(50)), "variants carry the list price, not the discounted one")
		assert.Equal(t, 7, v.Stock)
		assert.Equal(t, domain.VariantActive, v.Status)
		assert.Equal(t, now, v.CreatedAt)
	}

	vs[0].Images[0] = "changed"
	assert.Equal(t, "a.png", p.Images[0])
	assert.Empty(t, GenerateVariants(p, nil, nil, seqIDs("v"), now))
}

func TestReconcileVariants(t *testing.T) {
	now := time.Now()
	p := domain.Product{ID: "p1", Stock: 9}
	existing := GenerateVariants(p, []string{"red", "blue"}, []string{"s"}, seqIDs("old"), now)
	existing[0].Stock = 1

	d := ReconcileVariants(p, existing, []string{"blue", "black"}, []string{"s"}, seqIDs("new"), now)
	require.Len(t, d.Keep, 1)
	assert.Equal(t, "old2", d.Keep[0].ID)
	require.Len(t, d.Create, 1)
	assert.Equal(t, domain.AxisKey{ColorID: "black", SizeID: "s"}, d.Create[0].Key())
	assert.Equal(t, "new1", d.Create[0].ID)
	require.Len(t, d.Remove, 1)
	assert.Equal(t, "old1", d.Remove[0].ID)

	// Dropping the size axis changes every pair.
	d = ReconcileVariants(p, existing, []string{"red"}, nil, seqIDs("new"), now)
	assert.Empty(t, d.Keep)
	assert.Len(t, d.Create, 1)
	assert.Len(t, d.Remove, 2)
}

func TestAddLine(t *testing.T) {
	cart := domain.Cart{ID: "c1", UserID: "u1"}
	line := LineContext{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(3), ColorID: "red", SizeID: "s"}

	one := AddLine(cart, line, seqIDs("i"))
	assert.Empty(t, cart.Items, "input cart is left alone")
	require.Len(t, one.Items, 1)
	assert.Equal(t, "i1", one.Items[0].ID)

	two := AddLine(one, line, seqIDs("x"))
	require.Len(t, two.Items, 1)
	assert.Equal(t, 4, two.Items[0].Quantity)
	assert.Equal(t, 2, one.Items[0].Quantity)

	other := line
	other.SizeID = "m"
	three := AddLine(two, other, seqIDs("y"))
	require.Len(t, three.Items, 2)
	assert.Equal(t, "y1", three.Items[1].ID)
	assert.Equal(t, "18", three.Total().String())
	assert.Equal(t, 6, three.ItemCount())
}

func TestAggregateLines(t *testing.T) {
	got := AggregateLines([]LineRequest{
		{ProductID: "p1", Quantity: 1},
		{ProductID: " p2 ", Quantity: 1, ColorID: "red", SizeID: "s"},
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 2, ColorID: "red", SizeID: "s"},
		{ProductID: "p2", Quantity: 1, ColorID: "red", SizeID: "m"},
	})
	assert.Equal(t, []LineRequest{
		{ProductID: "p1", Quantity: 5},
		{ProductID: "p2", Quantity: 3, ColorID: "red", SizeID: "s"},
		{ProductID: "p2", Quantity: 1, ColorID: "red", SizeID: "m"},
	}, got)
}

func TestCheckStock(t *testing.T) {
	assert.NoError(t, CheckStock("product", "p1", 5, 5))
	assert.NoError(t, CheckStock("product", "p1", 0, 0))
	err := CheckStock("variant", "v1", 6, 5)
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assert.Equal(t, "Insufficient stock for variant v1: requested 6, available 5", err.Error())
}
