package domain

import "fmt"

// Taxonomy names one of the attribute kinds a product can reference.
type Taxonomy string

const (
	Brand    Taxonomy = "brand"
	Material Taxonomy = "material"
	Color    Taxonomy = "color"
	Size     Taxonomy = "size"
	Category Taxonomy = "category"
)

var Taxonomies = []Taxonomy{Brand, Material, Color, Size, Category}

func ParseTaxonomy(s string) (Taxonomy, bool) {
	for _, t := range Taxonomies {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Label is the capitalized name used in error messages.
func (t Taxonomy) Label() string {
	switch t {
	case Brand:
		return "Brand"
	case Material:
		return "Material"
	case Color:
		return "Color"
	case Size:
		return "Size"
	case Category:
		return "Category"
	}
	return string(t)
}

// single reports whether a product holds at most one reference of this kind.
func (t Taxonomy) single() bool { return t == Brand || t == Material }

// NotFound builds the not-found error for id. Brand and material messages omit the id.
func (t Taxonomy) NotFound(id string) *Error {
	if t.single() {
		return NotFound(fmt.Sprintf("%s not found", t.Label()))
	}
	return NotFound(fmt.Sprintf("%s not found: %s", t.Label(), id))
}

func (t Taxonomy) DuplicateOf(id string) *Error {
	return Duplicate(fmt.Sprintf("Duplicate %s: %s", t, id))
}
