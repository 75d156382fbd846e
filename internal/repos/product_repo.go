package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	SKU         string          `db:"sku"`
	Price       decimal.Decimal `db:"price"`
	Discount    decimal.Decimal `db:"discount"`
	FinalPrice  decimal.Decimal `db:"final_price"`
	Stock       int             `db:"stock"`
	Height      float64         `db:"height"`
	Width       float64         `db:"width"`
	Length      float64         `db:"length"`
	Weight      float64         `db:"weight"`
	BrandID     string          `db:"brand_id"`
	MaterialID  string          `db:"material_id"`
	Slug        string          `db:"slug"`
	ImagesJSON  string          `db:"images_json"`
	HasVariants bool            `db:"has_variants"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

const productColumns = `
    id, name, description, sku, price, discount, final_price, stock,
    height, width, length, weight, brand_id, COALESCE(material_id,'') AS material_id,
    slug, images_json, has_variants, created_at, updated_at`

func (row productRow) toDomain() (domain.Product, error) {
	images, err := decodeImages(row.ImagesJSON)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s images: %w", row.ID, err)
	}
	return domain.Product{
		ID: row.ID, Name: row.Name, Description: row.Description, SKU: row.SKU,
		Price: row.Price, Discount: row.Discount, FinalPrice: row.FinalPrice, Stock: row.Stock,
		Height: row.Height, Width: row.Width, Length: row.Length, Weight: row.Weight,
		BrandID: row.BrandID, MaterialID: row.MaterialID, Slug: row.Slug, Images: images,
		HasVariants: row.HasVariants, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, `
	  INSERT INTO products
	    (id, name, description, sku, price, discount, final_price, stock,
	     height, width, length, weight, brand_id, material_id, slug, images_json, has_variants, created_at, updated_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.SKU, p.Price, p.Discount, p.FinalPrice, p.Stock,
		p.Height, p.Width, p.Length, p.Weight, p.BrandID, nullable(p.MaterialID), p.Slug, images, p.HasVariants,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, where string, arg any) (domain.Product, bool, error) {
	var row productRow
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &row, `SELECT `+productColumns+` FROM products WHERE `+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, err
	}
	p, err := row.toDomain()
	if err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (domain.Product, bool, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (domain.Product, bool, error) {
	return r.get(ctx, `slug = ?`, slug)
}

func (r *ProductRepo) Save(ctx context.Context, p domain.Product) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products SET
		  name = ?, description = ?, sku = ?, price = ?, discount = ?, final_price = ?, stock = ?,
		  height = ?, width = ?, length = ?, weight = ?, brand_id = ?, material_id = ?,
		  slug = ?, images_json = ?, has_variants = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.SKU, p.Price, p.Discount, p.FinalPrice, p.Stock,
		p.Height, p.Width, p.Length, p.Weight, p.BrandID, nullable(p.MaterialID),
		p.Slug, images, p.HasVariants, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update product %s: %w", p.ID, sql.ErrNoRows)
	}
	return nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encode images: %w", err)
	}
	return string(b), nil
}

func decodeImages(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
