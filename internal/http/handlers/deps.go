package handlers

import (
	"storefront/internal/repos"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler      *ProductHandler
	CartHandler         *CartHandler
	TaxonomyHandler     *TaxonomyHandler
	AvailabilityHandler *AvailabilityHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	taxRepo := repos.NewTaxonomyRepo(db)
	prodRepo := repos.NewProductRepo(db)
	varRepo := repos.NewVariantRepo(db)
	linkRepo := repos.NewLinkRepo(db)
	cartRepo := repos.NewCartRepo(db)
	tx := repos.NewTransactor(db)

	attrs := services.NewAttributeResolver(taxRepo)
	lines := services.NewCartLineResolver(prodRepo, varRepo)
	productSvc := services.NewProductService(attrs, prodRepo, varRepo, linkRepo, tx)
	cartSvc := services.NewCartService(lines, cartRepo, tx)
	availSvc := services.NewAvailabilityService(lines)

	return &Deps{
		ProductHandler:      &ProductHandler{Products: productSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		TaxonomyHandler:     &TaxonomyHandler{Repo: taxRepo},
		AvailabilityHandler: &AvailabilityHandler{Avail: availSvc},
	}
}

// Mount registers the JSON API under r.
func Mount(r fiber.Router, d *Deps) {
	r.Post("/products", d.ProductHandler.Create)
	r.Get("/products/:id", d.ProductHandler.Get)
	r.Patch("/products/:id", d.ProductHandler.Edit)
	r.Patch("/variants/:id", d.ProductHandler.UpdateVariant)

	r.Get("/taxonomy/:kind", d.TaxonomyHandler.List)
	r.Post("/taxonomy/:kind", d.TaxonomyHandler.Create)

	r.Post("/carts", d.CartHandler.Create)
	r.Get("/carts/:userId", d.CartHandler.View)
	r.Post("/carts/:userId/items", d.CartHandler.Add)
	r.Patch("/carts/:userId/items/:itemId", d.CartHandler.UpdateQuantity)
	r.Delete("/carts/:userId/items/:itemId", d.CartHandler.Remove)

	r.Get("/availability", d.AvailabilityHandler.Check)
}
