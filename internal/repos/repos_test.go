package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, id, slug string) domain.Product {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	p := domain.Product{
		ID: id, Name: "Tee", BrandID: "acme", Slug: slug, Stock: 4,
		Images: []string{"a.jpg", "b.jpg"}, CreatedAt: now, UpdatedAt: now,
	}.WithPricing(decimal.RequireFromString("12.50"), decimal.NewFromInt(20))
	require.NoError(t, NewProductRepo(db).Create(context.Background(), p))
	return p
}

func TestSeedIsIdempotent(t *testing.T) {
	db := memdb(t)
	require.NoError(t, seedDefaultData(db))

	refs, err := NewTaxonomyRepo(db).List(context.Background(), domain.Color)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Equal(t, "Black", refs[0].Name)
}

func TestTaxonomyRepo(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	r := NewTaxonomyRepo(db)

	ref, found, err := r.FindByID(ctx, domain.Brand, "acme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.AttributeRef{ID: "acme", Name: "Acme", Kind: domain.Brand}, ref)

	_, found, err = r.FindByID(ctx, domain.Size, "xxl")
	require.NoError(t, err)
	assert.False(t, found)

	created, err := r.Create(ctx, domain.AttributeRef{ID: "xxl", Name: "XXL", Kind: domain.Size})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = r.Create(ctx, domain.AttributeRef{ID: "xxl", Name: "Other", Kind: domain.Size})
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = r.FindByID(ctx, domain.Taxonomy("flavor"), "x")
	assert.Error(t, err)
}

func TestProductRepo(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	r := NewProductRepo(db)
	p := seedProduct(t, db, "p1", "tee-acme")

	got, found, err := r.FindBySlug(ctx, "tee-acme")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.Equal(t, "10.00", got.FinalPrice.StringFixed(2))
	assert.Empty(t, got.MaterialID)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	got.MaterialID = "wool"
	got.Stock = 0
	require.NoError(t, r.Save(ctx, got))
	again, _, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "wool", again.MaterialID)
	assert.Equal(t, 0, again.Stock)

	assert.Error(t, r.Create(ctx, p.WithSlug("tee-acme")), "slug is unique")
	got.ID = "ghost"
	assert.Error(t, r.Save(ctx, got))
}

func TestLinkRepoKeepsOrder(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	seedProduct(t, db, "p1", "tee")
	r := NewLinkRepo(db)

	for _, l := range []domain.Link{
		{ProductID: "p1", AttributeID: "red", Kind: domain.Color},
		{ProductID: "p1", AttributeID: "s", Kind: domain.Size},
		{ProductID: "p1", AttributeID: "black", Kind: domain.Color},
		{ProductID: "p1", AttributeID: "blue", Kind: domain.Color},
	} {
		require.NoError(t, r.Create(ctx, l))
	}
	links, err := r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	var ids []string
	for _, l := range links {
		ids = append(ids, l.AttributeID)
	}
	assert.Equal(t, []string{"red", "black", "blue", "s"}, ids)

	require.NoError(t, r.DeleteByProduct(ctx, "p1", domain.Color))
	links, err = r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Link{{ProductID: "p1", AttributeID: "s", Kind: domain.Size}}, links)
}

func TestVariantRepo(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	seedProduct(t, db, "p1", "tee")
	r := NewVariantRepo(db)
	now := time.Now().UTC()

	for i, k := range []domain.AxisKey{{ColorID: "red", SizeID: "s"}, {ColorID: "red", SizeID: "m"}, {ColorID: "blue", SizeID: "s"}} {
		require.NoError(t, r.Create(ctx, domain.ProductVariant{
			ID: string(rune('a' + i)), ProductID: "p1", ColorID: k.ColorID, SizeID: k.SizeID,
			Price: decimal.NewFromInt(5), Status: domain.VariantActive, CreatedAt: now, UpdatedAt: now,
		}))
	}
	err := r.Create(ctx, domain.ProductVariant{ID: "dup", ProductID: "p1", ColorID: "red", SizeID: "s",
		Price: decimal.Zero, Status: domain.VariantActive, CreatedAt: now, UpdatedAt: now})
	assert.Error(t, err, "one variant per (product, color, size)")

	vs, err := r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, vs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{vs[0].ID, vs[1].ID, vs[2].ID})

	v := vs[1]
	v.Stock = 7
	v.Status = domain.VariantDiscontinued
	require.NoError(t, r.Update(ctx, v))
	got, found, err := r.FindByID(ctx, "b")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, domain.VariantDiscontinued, got.Status)

	require.NoError(t, r.Delete(ctx, "b"))
	_, found, err = r.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCartRepoSave(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	seedProduct(t, db, "p1", "tee")
	seedProduct(t, db, "p2", "cap")
	r := NewCartRepo(db)
	now := time.Now().UTC()

	cart := domain.Cart{ID: "c1", UserID: "u1", CreatedAt: now, UpdatedAt: now, Items: []domain.CartItem{
		{ID: "i1", ProductID: "p1", Quantity: 1, Price: decimal.NewFromInt(10)},
		{ID: "i2", ProductID: "p2", ColorID: "red", SizeID: "s", Quantity: 2, Price: decimal.NewFromInt(3)},
	}}
	require.NoError(t, r.Create(ctx, cart))
	assert.Error(t, r.Create(ctx, domain.Cart{ID: "c2", UserID: "u1", CreatedAt: now, UpdatedAt: now}), "one cart per user")

	// Lines missing from the cart are pruned; the rest keep their id.
	cart.Items = []domain.CartItem{
		{ID: "i9", ProductID: "p2", Quantity: 1, Price: decimal.NewFromInt(3)},
		{ID: "i1", ProductID: "p1", Quantity: 4, Price: decimal.NewFromInt(10)},
	}
	require.NoError(t, r.Save(ctx, cart))

	got, found, err := r.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "i9", got.Items[0].ID)
	assert.Equal(t, "i1", got.Items[1].ID)
	assert.Equal(t, 4, got.Items[1].Quantity)
	assert.Equal(t, "10", got.Items[1].Price.String())

	got.Items = nil
	require.NoError(t, r.Save(ctx, got))
	got, _, err = r.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	_, found, err = r.FindByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCartRepoSave_LineKey(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	seedProduct(t, db, "p1", "tee")
	r := NewCartRepo(db)
	now := time.Now().UTC()

	// Same product and color tag; only the variant differs.
	cart := domain.Cart{ID: "c1", UserID: "u1", CreatedAt: now, UpdatedAt: now, Items: []domain.CartItem{
		{ID: "i1", ProductID: "p1", VariantID: "v1", ColorID: "red", Quantity: 1, Price: decimal.NewFromInt(10)},
		{ID: "i2", ProductID: "p1", ColorID: "red", Quantity: 2, Price: decimal.NewFromInt(8)},
	}}
	require.NoError(t, r.Create(ctx, cart))
	got, _, err := r.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "v1", got.Items[0].VariantID)
	assert.Empty(t, got.Items[1].VariantID)

	// A new id on an existing key lands on the stored row with the later quantity.
	cart.Items = append(cart.Items, domain.CartItem{ID: "i3", ProductID: "p1", VariantID: "v1", ColorID: "red", Quantity: 5, Price: decimal.NewFromInt(10)})
	require.NoError(t, r.Save(ctx, cart))
	got, _, err = r.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "i2", got.Items[0].ID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "i1", got.Items[1].ID, "position follows the later line")
	assert.Equal(t, 5, got.Items[1].Quantity)
}

func TestTransactorRollsBack(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	tx := NewTransactor(db)
	boom := errors.New("boom")

	err := tx.InTx(ctx, func(ctx context.Context) error {
		tax := NewTaxonomyRepo(db)
		if _, err := tax.Create(ctx, domain.AttributeRef{ID: "teal", Name: "Teal", Kind: domain.Color}); err != nil {
			return err
		}
		return tx.InTx(ctx, func(context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	_, found, err := NewTaxonomyRepo(db).FindByID(ctx, domain.Color, "teal")
	require.NoError(t, err)
	assert.False(t, found)
}
