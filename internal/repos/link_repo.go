package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type linkTable struct{ table, column string }

var linkTables = map[domain.Taxonomy]linkTable{
	domain.Color:    {"product_colors", "color_id"},
	domain.Size:     {"product_sizes", "size_id"},
	domain.Category: {"product_categories", "category_id"},
}

// LinkRepo stores ProductColor / ProductSize / ProductCategory rows.
type LinkRepo struct{ db *sqlx.DB }

func NewLinkRepo(db *sqlx.DB) *LinkRepo { return &LinkRepo{db: db} }

func linkTableFor(kind domain.Taxonomy) (linkTable, error) {
	t, ok := linkTables[kind]
	if !ok {
		return linkTable{}, fmt.Errorf("no link table for %q", kind)
	}
	return t, nil
}

// Create appends the link after the product's existing links of that kind.
func (r *LinkRepo) Create(ctx context.Context, l domain.Link) error {
	t, err := linkTableFor(l.Kind)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO `+t.table+`(product_id, `+t.column+`, position)
		VALUES(?, ?, (SELECT COUNT(*) FROM `+t.table+` WHERE product_id = ?))
	`, l.ProductID, l.AttributeID, l.ProductID)
	if err != nil {
		return fmt.Errorf("create %s link: %w", l.Kind, err)
	}
	return nil
}

func (r *LinkRepo) FindByProductID(ctx context.Context, productID string) ([]domain.Link, error) {
	var out []domain.Link
	for _, kind := range []domain.Taxonomy{domain.Color, domain.Size, domain.Category} {
		t := linkTables[kind]
		var ids []string
		if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &ids,
			`SELECT `+t.column+` FROM `+t.table+` WHERE product_id = ? ORDER BY position`, productID); err != nil {
			return nil, fmt.Errorf("find %s links: %w", kind, err)
		}
		for _, id := range ids {
			out = append(out, domain.Link{ProductID: productID, AttributeID: id, Kind: kind})
		}
	}
	return out, nil
}

func (r *LinkRepo) DeleteByProduct(ctx context.Context, productID string, kind domain.Taxonomy) error {
	t, err := linkTableFor(kind)
	if err != nil {
		return err
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM `+t.table+` WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete %s links: %w", kind, err)
	}
	return nil
}
