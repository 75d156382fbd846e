package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// AddLine merges line into cart. A line with the same (product, color, size)
// key grows by line.Quantity; anything else is appended. cart is not modified.
func AddLine(cart domain.Cart, line LineContext, newID func() string) domain.Cart {
	out := cart.Clone()
	if i := out.Find(line.Key()); i >= 0 {
		out.Items[i].Quantity += line.Quantity
		return out
	}
	out.Items = append(out.Items, domain.CartItem{
		ID:        newID(),
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
		Price:     line.Price,
		Height:    line.Height,
		Width:     line.Width,
		Length:    line.Length,
		Weight:    line.Weight,
		ColorID:   line.ColorID,
		SizeID:    line.SizeID,
	})
	return out
}

// AggregateLines folds requested lines that share (product, variant, color,
// size) into one, summing quantities, in first-seen order.
func AggregateLines(reqs []LineRequest) []LineRequest {
	type key struct{ p, v, c, s string }
	idx := make(map[key]int, len(reqs))
	out := make([]LineRequest, 0, len(reqs))
	for _, r := range reqs {
		r = r.normalized()
		k := key{r.ProductID, r.VariantID, r.ColorID, r.SizeID}
		if i, ok := idx[k]; ok {
			out[i].Quantity += r.Quantity
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

type CreateCartRequest struct {
	UserID string
	Items  []LineRequest
}

type CartService struct {
	Lines *CartLineResolver
	Carts CartStore
	Tx    Transactor
	Now   func() time.Time
	NewID func() string
}

func NewCartService(lines *CartLineResolver, carts CartStore, tx Transactor) *CartService {
	return &CartService{
		Lines: lines,
		Carts: carts,
		Tx:    tx,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func checkUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", domain.Invalid("User id is required")
	}
	return userID, nil
}

func (s *CartService) findCart(ctx context.Context, userID string) (domain.Cart, error) {
	c, found, err := s.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Cart{}, domain.Infra("find cart", err)
	}
	if !found {
		return domain.Cart{}, domain.NotFound("Cart not found for user: " + userID)
	}
	return c, nil
}

func (s *CartService) save(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	c.UpdatedAt = s.Now()
	if err := s.Carts.Save(ctx, c); err != nil {
		return domain.Cart{}, domain.Infra("save cart", err)
	}
	return c, nil
}

// CreateCart opens the user's cart with the requested lines. Duplicate lines in
// the request are folded first so stock is checked against their sum; an
// existing cart for the user absorbs the lines instead of being replaced.
func (s *CartService) CreateCart(ctx context.Context, req CreateCartRequest) (domain.Cart, error) {
	userID, err := checkUser(req.UserID)
	if err != nil {
		return domain.Cart{}, err
	}
	if len(req.Items) == 0 {
		return domain.Cart{}, domain.Invalid("Cart must contain at least one item")
	}
	for _, r := range req.Items {
		if r.Quantity < 1 {
			return domain.Cart{}, domain.Invalid("Quantity must be greater than zero")
		}
	}
	var out domain.Cart
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		agg := AggregateLines(req.Items)
		lines := make([]LineContext, 0, len(agg))
		for _, r := range agg {
			line, err := s.Lines.ResolveLine(ctx, r)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		cart, found, err := s.Carts.FindByUserID(ctx, userID)
		if err != nil {
			return domain.Infra("find cart", err)
		}
		if !found {
			now := s.Now()
			cart = domain.Cart{ID: s.NewID(), UserID: userID, CreatedAt: now, UpdatedAt: now}
			if err := s.Carts.Create(ctx, cart); err != nil {
				return domain.Infra("create cart", err)
			}
		}
		for _, l := range lines {
			cart = AddLine(cart, l, s.NewID)
		}
		out, err = s.save(ctx, cart)
		return err
	})
	if err != nil {
		return domain.Cart{}, asDomain("create cart", err)
	}
	return out, nil
}

// AddItemToCart adds one line to the user's existing cart.
func (s *CartService) AddItemToCart(ctx context.Context, userID string, req LineRequest) (domain.Cart, error) {
	userID, err := checkUser(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	var out domain.Cart
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		line, err := s.Lines.ResolveLine(ctx, req)
		if err != nil {
			return err
		}
		cart, err := s.findCart(ctx, userID)
		if err != nil {
			return err
		}
		out, err = s.save(ctx, AddLine(cart, line, s.NewID))
		return err
	})
	if err != nil {
		return domain.Cart{}, asDomain("add cart item", err)
	}
	return out, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	userID, err := checkUser(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.findCart(ctx, userID)
}

// UpdateItemQuantity sets a line to qty after checking qty against the stock
// of the product or variant behind it.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, qty int) (domain.Cart, error) {
	userID, err := checkUser(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	if qty < 1 {
		return domain.Cart{}, domain.Invalid("Quantity must be greater than zero")
	}
	var out domain.Cart
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		cart, err := s.findCart(ctx, userID)
		if err != nil {
			return err
		}
		item, i, ok := cart.ItemByID(itemID)
		if !ok {
			return domain.NotFound("Cart item not found: " + itemID)
		}
		req := LineRequest{ProductID: item.ProductID, Quantity: qty, ColorID: item.ColorID, SizeID: item.SizeID}
		if item.VariantID != "" {
			req = LineRequest{VariantID: item.VariantID, Quantity: qty}
		}
		if _, err := s.Lines.ResolveLine(ctx, req); err != nil {
			return err
		}
		next := cart.Clone()
		next.Items[i].Quantity = qty
		out, err = s.save(ctx, next)
		return err
	})
	if err != nil {
		return domain.Cart{}, asDomain("update cart item", err)
	}
	return out, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (domain.Cart, error) {
	userID, err := checkUser(userID)
	if err != nil {
		return domain.Cart{}, err
	}
	var out domain.Cart
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		cart, err := s.findCart(ctx, userID)
		if err != nil {
			return err
		}
		_, i, ok := cart.ItemByID(itemID)
		if !ok {
			return domain.NotFound("Cart item not found: " + itemID)
		}
		next := cart.Clone()
		next.Items = append(next.Items[:i], next.Items[i+1:]...)
		out, err = s.save(ctx, next)
		return err
	})
	if err != nil {
		return domain.Cart{}, asDomain("remove cart item", err)
	}
	return out, nil
}
