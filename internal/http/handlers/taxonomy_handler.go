package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

const maxAttributeName = 80

type TaxonomyHandler struct {
	Repo *repos.TaxonomyRepo
}

type attributeBody struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func kindParam(c *fiber.Ctx) (domain.Taxonomy, bool) {
	return domain.ParseTaxonomy(c.Params("kind"))
}

// GET /api/v1/taxonomy/:kind
func (h *TaxonomyHandler) List(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return fiber.ErrNotFound
	}
	refs, err := h.Repo.List(c.UserContext(), kind)
	if err != nil {
		return fail(c, "taxonomy.list", domain.Infra("list "+string(kind), err), nil)
	}
	return c.JSON(refs)
}

// POST /api/v1/taxonomy/:kind
func (h *TaxonomyHandler) Create(c *fiber.Ctx) error {
	kind, ok := kindParam(c)
	if !ok {
		return fiber.ErrNotFound
	}
	var b attributeBody
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "taxonomy.create", err)
	}
	if err := validate.Struct(b); err != nil {
		return badRequest(c, "taxonomy.create", err)
	}
	id, ok := validate.ID(b.ID)
	if !ok {
		return fail(c, "taxonomy.create", domain.Invalid("Invalid "+string(kind)+" id"), nil)
	}
	name, ok := validate.Name(b.Name, maxAttributeName)
	if !ok {
		return fail(c, "taxonomy.create", domain.Invalid(kind.Label()+" name must be 1-80 characters"), nil)
	}
	ref := domain.AttributeRef{ID: id, Name: name, Kind: kind}
	created, err := h.Repo.Create(c.UserContext(), ref)
	if err != nil {
		return fail(c, "taxonomy.create", domain.Infra("create "+string(kind), err), nil)
	}
	if !created {
		return fail(c, "taxonomy.create", kind.DuplicateOf(id), nil)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "taxonomy.create", map[string]any{"kind": string(kind), "id": id})
	return c.JSON(ref)
}
