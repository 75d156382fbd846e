package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	applog "storefront/internal/log"
)

func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: sqlite transactions then serialize every
	// read-then-write sequence, and :memory: databases survive between calls.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if seed {
		if err := seedDefaultData(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Taxonomy
CREATE TABLE IF NOT EXISTS brands(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS materials(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS colors(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS sizes(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  sku TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  discount TEXT NOT NULL DEFAULT '0',
  final_price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  height REAL NOT NULL DEFAULT 0,
  width REAL NOT NULL DEFAULT 0,
  length REAL NOT NULL DEFAULT 0,
  weight REAL NOT NULL DEFAULT 0,
  brand_id TEXT NOT NULL REFERENCES brands(id) ON DELETE RESTRICT,
  material_id TEXT NULL REFERENCES materials(id) ON DELETE SET NULL,
  slug TEXT NOT NULL,
  images_json TEXT NOT NULL DEFAULT '[]',
  has_variants INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_slug ON products(slug);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_id);

-- Attribute links
CREATE TABLE IF NOT EXISTS product_colors(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  color_id TEXT NOT NULL REFERENCES colors(id) ON DELETE RESTRICT,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY(product_id, color_id)
);
CREATE TABLE IF NOT EXISTS product_sizes(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size_id TEXT NOT NULL REFERENCES sizes(id) ON DELETE RESTRICT,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY(product_id, size_id)
);
CREATE TABLE IF NOT EXISTS product_categories(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY(product_id, category_id)
);

-- Variants ('' marks an unset axis so the unique key holds)
CREATE TABLE IF NOT EXISTS product_variants(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  color_id TEXT NOT NULL DEFAULT '',
  size_id TEXT NOT NULL DEFAULT '',
  sku TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  price TEXT NOT NULL,
  images_json TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL CHECK (status IN ('ACTIVE','INACTIVE','DISCONTINUED')),
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL,
  UNIQUE(product_id, color_id, size_id)
);
CREATE INDEX IF NOT EXISTS idx_variants_product ON product_variants(product_id);

-- Carts (one per user)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE NOT NULL,
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  variant_id TEXT NOT NULL DEFAULT '',
  color_id TEXT NOT NULL DEFAULT '',
  size_id TEXT NOT NULL DEFAULT '',
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price TEXT NOT NULL,
  height REAL NOT NULL DEFAULT 0,
  width REAL NOT NULL DEFAULT 0,
  length REAL NOT NULL DEFAULT 0,
  weight REAL NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE(cart_id, product_id, variant_id, color_id, size_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedDefaultData inserts demo taxonomy rows if they don't already exist.
// Safe to run on every startup (idempotent).
func seedDefaultData(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	rows := map[string][][2]string{
		"brands":     {{"acme", "Acme"}, {"northwind", "Northwind"}},
		"materials":  {{"cotton", "Cotton"}, {"wool", "Wool"}, {"leather", "Leather"}},
		"colors":     {{"red", "Red"}, {"blue", "Blue"}, {"black", "Black"}},
		"sizes":      {{"s", "S"}, {"m", "M"}, {"l", "L"}},
		"categories": {{"shirts", "Shirts"}, {"outerwear", "Outerwear"}, {"accessories", "Accessories"}},
	}
	for table, entries := range rows {
		for _, e := range entries {
			if _, err := tx.Exec(`INSERT INTO `+table+`(id, name) VALUES(?, ?) ON CONFLICT(id) DO NOTHING`, e[0], e[1]); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	applog.L().Info("seed.taxonomy", zap.Int("tables", len(rows)))
	return nil
}

type txKey struct{}

// Transactor opens a sqlite transaction and threads it through ctx; every repo
// in this package picks it up from there.
type Transactor struct{ db *sqlx.DB }

func NewTransactor(db *sqlx.DB) *Transactor { return &Transactor{db: db} }

func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
