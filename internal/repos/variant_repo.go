package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type VariantRepo struct{ db *sqlx.DB }

func NewVariantRepo(db *sqlx.DB) *VariantRepo { return &VariantRepo{db: db} }

type variantRow struct {
	ID         string          `db:"id"`
	ProductID  string          `db:"product_id"`
	ColorID    string          `db:"color_id"`
	SizeID     string          `db:"size_id"`
	SKU        string          `db:"sku"`
	Stock      int             `db:"stock"`
	Price      decimal.Decimal `db:"price"`
	ImagesJSON string          `db:"images_json"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

const variantColumns = `id, product_id, color_id, size_id, sku, stock, price, images_json, status, created_at, updated_at`

func (row variantRow) toDomain() (domain.ProductVariant, error) {
	images, err := decodeImages(row.ImagesJSON)
	if err != nil {
		return domain.ProductVariant{}, fmt.Errorf("variant %s images: %w", row.ID, err)
	}
	return domain.ProductVariant{
		ID: row.ID, ProductID: row.ProductID, ColorID: row.ColorID, SizeID: row.SizeID,
		SKU: row.SKU, Stock: row.Stock, Price: row.Price, Images: images,
		Status: domain.VariantStatus(row.Status), CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *VariantRepo) Create(ctx context.Context, v domain.ProductVariant) error {
	images, err := encodeImages(v.Images)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO product_variants(`+variantColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.ProductID, v.ColorID, v.SizeID, v.SKU, v.Stock, v.Price, images, string(v.Status), v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert variant %s: %w", v.ID, err)
	}
	return nil
}

func (r *VariantRepo) FindByID(ctx context.Context, id string) (domain.ProductVariant, bool, error) {
	var row variantRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row, `SELECT `+variantColumns+` FROM product_variants WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProductVariant{}, false, nil
	}
	if err != nil {
		return domain.ProductVariant{}, false, err
	}
	v, err := row.toDomain()
	if err != nil {
		return domain.ProductVariant{}, false, err
	}
	return v, true, nil
}

// FindByProductID returns variants in creation order, which is matrix order.
func (r *VariantRepo) FindByProductID(ctx context.Context, productID string) ([]domain.ProductVariant, error) {
	var rows []variantRow
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, `
		SELECT `+variantColumns+` FROM product_variants
		WHERE product_id = ?
		ORDER BY created_at, rowid
	`, productID); err != nil {
		return nil, fmt.Errorf("list variants of %s: %w", productID, err)
	}
	out := make([]domain.ProductVariant, 0, len(rows))
	for _, row := range rows {
		v, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *VariantRepo) Update(ctx context.Context, v domain.ProductVariant) error {
	images, err := encodeImages(v.Images)
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE product_variants
		SET sku = ?, stock = ?, price = ?, images_json = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, v.SKU, v.Stock, v.Price, images, string(v.Status), v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("update variant %s: %w", v.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update variant %s: %w", v.ID, sql.ErrNoRows)
	}
	return nil
}

func (r *VariantRepo) Delete(ctx context.Context, id string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM product_variants WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete variant %s: %w", id, err)
	}
	return nil
}
