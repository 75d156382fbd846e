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

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type cartItemRow struct {
	ID        string          `db:"id"`
	ProductID string          `db:"product_id"`
	VariantID string          `db:"variant_id"`
	ColorID   string          `db:"color_id"`
	SizeID    string          `db:"size_id"`
	Qty       int             `db:"qty"`
	Price     decimal.Decimal `db:"price"`
	Height    float64         `db:"height"`
	Width     float64         `db:"width"`
	Length    float64         `db:"length"`
	Weight    float64         `db:"weight"`
}

func (r *CartRepo) FindByUserID(ctx context.Context, userID string) (domain.Cart, bool, error) {
	q := conn(ctx, r.db)
	var c cartRow
	err := sqlx.GetContext(ctx, q, &c, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, false, nil
	}
	if err != nil {
		return domain.Cart{}, false, fmt.Errorf("find cart of %s: %w", userID, err)
	}
	var rows []cartItemRow
	if err := sqlx.SelectContext(ctx, q, &rows, `
	  SELECT id, product_id, variant_id, color_id, size_id, qty, price, height, width, length, weight
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY position, created_at
	`, c.ID); err != nil {
		return domain.Cart{}, false, fmt.Errorf("list cart items of %s: %w", c.ID, err)
	}
	cart := domain.Cart{ID: c.ID, UserID: c.UserID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		Items: make([]domain.CartItem, 0, len(rows))}
	for _, it := range rows {
		cart.Items = append(cart.Items, domain.CartItem{
			ID: it.ID, ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Qty, Price: it.Price,
			Height: it.Height, Width: it.Width, Length: it.Length, Weight: it.Weight,
			ColorID: it.ColorID, SizeID: it.SizeID,
		})
	}
	return cart, true, nil
}

// Create inserts the cart header and any items it already holds.
func (r *CartRepo) Create(ctx context.Context, c domain.Cart) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO carts(id, user_id, created_at, updated_at) VALUES(?, ?, ?, ?)`,
		c.ID, c.UserID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cart for %s: %w", c.UserID, err)
	}
	if len(c.Items) == 0 {
		return nil
	}
	return r.Save(ctx, c)
}

// Save makes the stored lines match c.Items. Known lines are updated by id;
// new ones are upserted on the line key, so a stored line with the same key
// under another id takes c's quantity instead of being duplicated.
func (r *CartRepo) Save(ctx context.Context, c domain.Cart) error {
	q := conn(ctx, r.db)
	res, err := q.ExecContext(ctx, `UPDATE carts SET updated_at = ? WHERE id = ?`, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("touch cart %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("touch cart %s: %w", c.ID, sql.ErrNoRows)
	}

	if len(c.Items) == 0 {
		if _, err := q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, c.ID); err != nil {
			return fmt.Errorf("clear cart %s: %w", c.ID, err)
		}
		return nil
	}
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ID
	}
	query, args, err := sqlx.In(`DELETE FROM cart_items WHERE cart_id = ? AND id NOT IN (?)`, c.ID, ids)
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("prune cart %s: %w", c.ID, err)
	}

	for i, it := range c.Items {
		res, err := q.ExecContext(ctx, `
			UPDATE cart_items SET qty = ?, position = ?, updated_at = ?
			WHERE id = ? AND cart_id = ?
		`, it.Quantity, i, c.UpdatedAt, it.ID, c.ID)
		if err != nil {
			return fmt.Errorf("update cart item %s: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			continue
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO cart_items
			  (id, cart_id, product_id, variant_id, color_id, size_id, qty, price,
			   height, width, length, weight, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(cart_id, product_id, variant_id, color_id, size_id) DO UPDATE SET
			  qty = excluded.qty,
			  position = excluded.position,
			  updated_at = excluded.updated_at
		`, it.ID, c.ID, it.ProductID, it.VariantID, it.ColorID, it.SizeID, it.Quantity, it.Price,
			it.Height, it.Width, it.Length, it.Weight, i, c.UpdatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert cart item %s: %w", it.ID, err)
		}
	}
	return nil
}
