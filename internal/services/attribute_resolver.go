package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

// AttributeResolver confirms taxonomy references against their backing store.
type AttributeResolver struct {
	Lookup TaxonomyLookup
}

func NewAttributeResolver(lookup TaxonomyLookup) *AttributeResolver {
	return &AttributeResolver{Lookup: lookup}
}

func (r *AttributeResolver) Resolve(ctx context.Context, kind domain.Taxonomy, id string) (domain.AttributeRef, error) {
	clean, ok := validate.ID(id)
	if !ok {
		return domain.AttributeRef{}, kind.NotFound(id)
	}
	ref, found, err := r.Lookup.FindByID(ctx, kind, clean)
	if err != nil {
		return domain.AttributeRef{}, domain.Infra("find "+string(kind), err)
	}
	if !found {
		return domain.AttributeRef{}, kind.NotFound(clean)
	}
	return ref, nil
}

// ResolveUnique walks ids in order, resolving each before checking it against
// the ones already accepted, and stops at the first fault. An id that is both
// unknown and repeated therefore reports not found.
func (r *AttributeResolver) ResolveUnique(ctx context.Context, kind domain.Taxonomy, ids []string) ([]domain.AttributeRef, error) {
	out := make([]domain.AttributeRef, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		ref, err := r.Resolve(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[ref.ID]; dup {
			return nil, kind.DuplicateOf(ref.ID)
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref)
	}
	return out, nil
}

func refIDs(refs []domain.AttributeRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}
