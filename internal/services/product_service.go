package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

const maxNameLen = 120

type CreateProductRequest struct {
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Stock       int
	Height      float64
	Width       float64
	Length      float64
	Weight      float64
	BrandID     string
	MaterialID  string
	Images      []string
	Colors      []string
	Sizes       []string
	Categories  []string
}

// EditProductRequest holds only what the caller supplied; nil leaves a field
// alone. MaterialID pointing at "" clears the material.
type EditProductRequest struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Discount    *decimal.Decimal
	Stock       *int
	Height      *float64
	Width       *float64
	Length      *float64
	Weight      *float64
	BrandID     *string
	MaterialID  *string
	Images      *[]string
	Colors      *[]string
	Sizes       *[]string
	Categories  *[]string
}

// ProductDetail is a product with its attribute links and variants.
type ProductDetail struct {
	domain.Product
	ColorIDs    []string                `json:"colorIds"`
	SizeIDs     []string                `json:"sizeIds"`
	CategoryIDs []string                `json:"categoryIds"`
	Variants    []domain.ProductVariant `json:"variants"`
}

type ProductService struct {
	Attrs    *AttributeResolver
	Products ProductStore
	Variants VariantStore
	Links    AttributeLinkStore
	Tx       Transactor
	Now      func() time.Time
	NewID    func() string
}

func NewProductService(attrs *AttributeResolver, products ProductStore, variants VariantStore, links AttributeLinkStore, tx Transactor) *ProductService {
	return &ProductService{
		Attrs:    attrs,
		Products: products,
		Variants: variants,
		Links:    links,
		Tx:       tx,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

// productFields is the validated scalar state shared by create and edit.
type productFields struct {
	name                          string
	stock                         int
	price, discount               decimal.Decimal
	height, width, length, weight float64
}

func checkFields(f productFields) error {
	if f.name == "" {
		return domain.Invalid("Product name is required")
	}
	if len([]rune(f.name)) > maxNameLen {
		return domain.Invalid(fmt.Sprintf("Product name must be at most %d characters", maxNameLen))
	}
	if f.stock < 0 {
		return domain.Invalid("Stock cannot be negative")
	}
	if f.price.IsNegative() {
		return domain.Invalid("Price cannot be negative")
	}
	if f.discount.IsNegative() || f.discount.GreaterThan(hundredPct) {
		return domain.Invalid("Discount must be between 0 and 100")
	}
	if f.height < 0 || f.width < 0 || f.length < 0 || f.weight < 0 {
		return domain.Invalid("Dimensions cannot be negative")
	}
	return nil
}

var hundredPct = decimal.NewFromInt(100)

// resolved attribute sets for one request
type attrSet struct {
	colors, sizes, categories []domain.AttributeRef
}

func (s *ProductService) resolveLists(ctx context.Context, colors, sizes, categories []string) (attrSet, error) {
	var a attrSet
	var err error
	if a.colors, err = s.Attrs.ResolveUnique(ctx, domain.Color, colors); err != nil {
		return attrSet{}, err
	}
	if a.sizes, err = s.Attrs.ResolveUnique(ctx, domain.Size, sizes); err != nil {
		return attrSet{}, err
	}
	if a.categories, err = s.Attrs.ResolveUnique(ctx, domain.Category, categories); err != nil {
		return attrSet{}, err
	}
	return a, nil
}

func (s *ProductService) resolveMaterial(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	ref, err := s.Attrs.Resolve(ctx, domain.Material, id)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// CreateProduct validates every input before writing anything, then stores
// the product, its links and its variant matrix in one transaction.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductDetail, error) {
	name, _ := validate.Name(req.Name, maxNameLen)
	if err := checkFields(productFields{
		name: name, stock: req.Stock, price: req.Price, discount: req.Discount,
		height: req.Height, width: req.Width, length: req.Length, weight: req.Weight,
	}); err != nil {
		return ProductDetail{}, err
	}
	brand, err := s.Attrs.Resolve(ctx, domain.Brand, req.BrandID)
	if err != nil {
		return ProductDetail{}, err
	}
	materialID, err := s.resolveMaterial(ctx, req.MaterialID)
	if err != nil {
		return ProductDetail{}, err
	}
	attrs, err := s.resolveLists(ctx, req.Colors, req.Sizes, req.Categories)
	if err != nil {
		return ProductDetail{}, err
	}

	now := s.Now()
	p := domain.Product{
		ID:          s.NewID(),
		Name:        name,
		Description: req.Description,
		SKU:         req.SKU,
		Stock:       req.Stock,
		Height:      req.Height,
		Width:       req.Width,
		Length:      req.Length,
		Weight:      req.Weight,
		BrandID:     brand.ID,
		MaterialID:  materialID,
		Images:      append([]string(nil), req.Images...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}.WithPricing(req.Price, req.Discount)

	colorIDs, sizeIDs := refIDs(attrs.colors), refIDs(attrs.sizes)
	variants := GenerateVariants(p, colorIDs, sizeIDs, s.NewID, now)
	p = p.WithVariants(len(variants) > 0)

	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		slug, err := s.uniqueSlug(ctx, validate.Slug(name+" "+brand.Name), p.ID)
		if err != nil {
			return err
		}
		p = p.WithSlug(slug)
		if err := s.Products.Create(ctx, p); err != nil {
			return domain.Infra("create product", err)
		}
		if err := s.createLinks(ctx, p.ID, attrs); err != nil {
			return err
		}
		for _, v := range variants {
			if err := s.Variants.Create(ctx, v); err != nil {
				return domain.Infra("create variant", err)
			}
		}
		return nil
	})
	if err != nil {
		return ProductDetail{}, asDomain("create product", err)
	}
	return ProductDetail{
		Product:     p,
		ColorIDs:    colorIDs,
		SizeIDs:     sizeIDs,
		CategoryIDs: refIDs(attrs.categories),
		Variants:    variants,
	}, nil
}

func (s *ProductService) createLinks(ctx context.Context, productID string, a attrSet) error {
	for _, group := range [][]domain.AttributeRef{a.colors, a.sizes, a.categories} {
		for _, ref := range group {
			if err := s.Links.Create(ctx, domain.Link{ProductID: productID, AttributeID: ref.ID, Kind: ref.Kind}); err != nil {
				return domain.Infra("create "+string(ref.Kind)+" link", err)
			}
		}
	}
	return nil
}

// uniqueSlug returns base, or base-2, base-3, ... for the first candidate not
// held by a product other than selfID.
func (s *ProductService) uniqueSlug(ctx context.Context, base, selfID string) (string, error) {
	if base == "" {
		base = "product"
	}
	candidate := base
	for n := 2; ; n++ {
		other, found, err := s.Products.FindBySlug(ctx, candidate)
		if err != nil {
			return "", domain.Infra("find product by slug", err)
		}
		if !found || other.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *ProductService) findProduct(ctx context.Context, id string) (domain.Product, error) {
	p, found, err := s.Products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, domain.Infra("find product", err)
	}
	if !found {
		return domain.Product{}, domain.NotFound("Product not found: " + id)
	}
	return p, nil
}

// EditProduct applies the supplied fields with the same validation as create.
// When colors or sizes change the variant matrix is reconciled: surviving
// pairs keep their variant, stale pairs are deleted, new pairs are generated.
func (s *ProductService) EditProduct(ctx context.Context, id string, req EditProductRequest) (ProductDetail, error) {
	cur, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}

	f := productFields{
		name: cur.Name, stock: cur.Stock, price: cur.Price, discount: cur.Discount,
		height: cur.Height, width: cur.Width, length: cur.Length, weight: cur.Weight,
	}
	if req.Name != nil {
		f.name, _ = validate.Name(*req.Name, maxNameLen)
	}
	setInt(&f.stock, req.Stock)
	setDec(&f.price, req.Price)
	setDec(&f.discount, req.Discount)
	setFloat(&f.height, req.Height)
	setFloat(&f.width, req.Width)
	setFloat(&f.length, req.Length)
	setFloat(&f.weight, req.Weight)
	if err := checkFields(f); err != nil {
		return ProductDetail{}, err
	}

	brandID := cur.BrandID
	brandChanged := false
	var brand domain.AttributeRef
	if req.BrandID != nil || req.Name != nil {
		if req.BrandID != nil {
			brandID = *req.BrandID
		}
		if brand, err = s.Attrs.Resolve(ctx, domain.Brand, brandID); err != nil {
			return ProductDetail{}, err
		}
		brandChanged = brand.ID != cur.BrandID
	}
	materialID := cur.MaterialID
	if req.MaterialID != nil {
		if materialID, err = s.resolveMaterial(ctx, *req.MaterialID); err != nil {
			return ProductDetail{}, err
		}
	}
	attrs, err := s.resolveLists(ctx, deref(req.Colors), deref(req.Sizes), deref(req.Categories))
	if err != nil {
		return ProductDetail{}, err
	}

	now := s.Now()
	next := cur.Clone()
	next.Name = f.name
	next.Stock = f.stock
	next.Height, next.Width, next.Length, next.Weight = f.height, f.width, f.length, f.weight
	next.BrandID = brandID
	next.MaterialID = materialID
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.SKU != nil {
		next.SKU = *req.SKU
	}
	if req.Images != nil {
		next.Images = append([]string(nil), (*req.Images)...)
	}
	if req.Price != nil || req.Discount != nil {
		next = next.WithPricing(f.price, f.discount)
	}
	next = next.Touched(now)

	var colorIDs, sizeIDs, categoryIDs []string
	var variants []domain.ProductVariant
	matrixChanged := req.Colors != nil || req.Sizes != nil
	// Links and variants are read in the same transaction that rewrites them.
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		links, err := s.Links.FindByProductID(ctx, id)
		if err != nil {
			return domain.Infra("find links", err)
		}
		current := linkIDs(links)
		colorIDs, sizeIDs, categoryIDs = current[domain.Color], current[domain.Size], current[domain.Category]
		if req.Colors != nil {
			colorIDs = refIDs(attrs.colors)
		}
		if req.Sizes != nil {
			sizeIDs = refIDs(attrs.sizes)
		}
		if req.Categories != nil {
			categoryIDs = refIDs(attrs.categories)
		}

		existing, err := s.Variants.FindByProductID(ctx, id)
		if err != nil {
			return domain.Infra("find variants", err)
		}
		variants = existing
		var diff MatrixDiff
		if matrixChanged {
			diff = ReconcileVariants(next, existing, colorIDs, sizeIDs, s.NewID, now)
			next = next.WithVariants(len(diff.Keep)+len(diff.Create) > 0)
			variants = append(append([]domain.ProductVariant(nil), diff.Keep...), diff.Create...)
		}

		if (req.Name != nil && f.name != cur.Name) || brandChanged {
			slug, err := s.uniqueSlug(ctx, validate.Slug(f.name+" "+brand.Name), id)
			if err != nil {
				return err
			}
			next = next.WithSlug(slug)
		}
		if err := s.Products.Save(ctx, next); err != nil {
			return domain.Infra("save product", err)
		}
		replace := []struct {
			kind domain.Taxonomy
			list *[]string
			refs []domain.AttributeRef
		}{
			{domain.Color, req.Colors, attrs.colors},
			{domain.Size, req.Sizes, attrs.sizes},
			{domain.Category, req.Categories, attrs.categories},
		}
		for _, r := range replace {
			if r.list == nil {
				continue
			}
			if err := s.Links.DeleteByProduct(ctx, id, r.kind); err != nil {
				return domain.Infra("delete "+string(r.kind)+" links", err)
			}
			for _, ref := range r.refs {
				if err := s.Links.Create(ctx, domain.Link{ProductID: id, AttributeID: ref.ID, Kind: r.kind}); err != nil {
					return domain.Infra("create "+string(r.kind)+" link", err)
				}
			}
		}
		for _, v := range diff.Remove {
			if err := s.Variants.Delete(ctx, v.ID); err != nil {
				return domain.Infra("delete variant", err)
			}
		}
		for _, v := range diff.Create {
			if err := s.Variants.Create(ctx, v); err != nil {
				return domain.Infra("create variant", err)
			}
		}
		return nil
	})
	if err != nil {
		return ProductDetail{}, asDomain("edit product", err)
	}

	return ProductDetail{
		Product:     next,
		ColorIDs:    colorIDs,
		SizeIDs:     sizeIDs,
		CategoryIDs: categoryIDs,
		Variants:    variants,
	}, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (ProductDetail, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}
	links, err := s.Links.FindByProductID(ctx, id)
	if err != nil {
		return ProductDetail{}, domain.Infra("find links", err)
	}
	variants, err := s.Variants.FindByProductID(ctx, id)
	if err != nil {
		return ProductDetail{}, domain.Infra("find variants", err)
	}
	ids := linkIDs(links)
	return ProductDetail{
		Product:     p,
		ColorIDs:    ids[domain.Color],
		SizeIDs:     ids[domain.Size],
		CategoryIDs: ids[domain.Category],
		Variants:    variants,
	}, nil
}

// UpdateVariant is the only way a variant diverges from the values it was
// generated with.
func (s *ProductService) UpdateVariant(ctx context.Context, id string, u domain.VariantUpdate) (domain.ProductVariant, error) {
	v, found, err := s.Variants.FindByID(ctx, id)
	if err != nil {
		return domain.ProductVariant{}, domain.Infra("find variant", err)
	}
	if !found {
		return domain.ProductVariant{}, domain.NotFound("Variant not found: " + id)
	}
	if u.Stock != nil && *u.Stock < 0 {
		return domain.ProductVariant{}, domain.Invalid("Stock cannot be negative")
	}
	if u.Price != nil && u.Price.IsNegative() {
		return domain.ProductVariant{}, domain.Invalid("Price cannot be negative")
	}
	if u.Status != nil {
		if _, ok := domain.ParseVariantStatus(string(*u.Status)); !ok {
			return domain.ProductVariant{}, domain.Invalid("Invalid variant status: " + string(*u.Status))
		}
	}
	next := v.Apply(u, s.Now())
	if err := s.Variants.Update(ctx, next); err != nil {
		return domain.ProductVariant{}, domain.Infra("update variant", err)
	}
	return next, nil
}

func linkIDs(links []domain.Link) map[domain.Taxonomy][]string {
	out := make(map[domain.Taxonomy][]string, 3)
	for _, l := range links {
		out[l.Kind] = append(out[l.Kind], l.AttributeID)
	}
	return out
}

// asDomain passes domain errors through and wraps anything else as an
// infrastructure failure of op.
func asDomain(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Infra(op, err)
}

func deref(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDec(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
