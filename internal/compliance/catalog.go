// Package compliance computes document compliance for workers and rolls it up per site.
// Everything here is a pure function of its inputs and an explicit evaluation instant:
// no I/O, no clocks, no shared state.
package compliance

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"workcompliance/internal/model"
)

// ErrMalformedRecord marks input that cannot be evaluated without guessing.
var ErrMalformedRecord = errors.New("malformed record")

// Catalog is the validated set of active document types, in display order.
type Catalog struct {
	generic []model.DocumentTypeDefinition
	site    map[model.Scope]model.DocumentTypeDefinition
}

// NewCatalog validates the raw definitions and keeps the active ones.
// Codes must be non-empty and unique; scopes must be known. An empty
// input is valid and yields a catalog under which nothing applies.
func NewCatalog(defs []model.DocumentTypeDefinition) (Catalog, error) {
	seen := make(map[string]struct{}, len(defs))
	active := make([]model.DocumentTypeDefinition, 0, len(defs))
	for _, d := range defs {
		if strings.TrimSpace(d.Code) == "" {
			return Catalog{}, fmt.Errorf("%w: document type %q has an empty code", ErrMalformedRecord, d.Name)
		}
		if _, dup := seen[d.Code]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate document type code %q", ErrMalformedRecord, d.Code)
		}
		seen[d.Code] = struct{}{}

		scope, err := model.ParseScope(string(d.Scope))
		if err != nil {
			return Catalog{}, fmt.Errorf("%w: document type %q: %v", ErrMalformedRecord, d.Code, err)
		}
		d.Scope = scope

		if d.Active {
			active = append(active, d)
		}
	}
	slices.SortFunc(active, compareDefinitions)

	c := Catalog{site: make(map[model.Scope]model.DocumentTypeDefinition, 3)}
	for _, d := range active {
		if d.Scope.SiteScoped() {
			// first by display order wins when several entries share a site scope
			if _, ok := c.site[d.Scope]; !ok {
				c.site[d.Scope] = d
			}
			continue
		}
		c.generic = append(c.generic, d)
	}
	return c, nil
}

// Generic returns the active worker-scoped definitions in display order.
func (c Catalog) Generic() []model.DocumentTypeDefinition {
	return slices.Clone(c.generic)
}

// SiteType returns the active definition for a site scope, if the catalog has one.
func (c Catalog) SiteType(scope model.Scope) (model.DocumentTypeDefinition, bool) {
	d, ok := c.site[scope]
	return d, ok
}

func compareDefinitions(a, b model.DocumentTypeDefinition) int {
	if n := cmp.Compare(a.DisplayOrder, b.DisplayOrder); n != 0 {
		return n
	}
	return cmp.Compare(a.Code, b.Code)
}
