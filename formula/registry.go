package formula

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps recipe names to recipes.
type Registry struct {
	recipes map[string]Recipe
}

// NewRegistry returns a registry holding rs. It panics on duplicate names,
// which can only come from a programming error in the recipe set.
func NewRegistry(rs ...Recipe) *Registry {
	r := &Registry{recipes: make(map[string]Recipe, len(rs))}
	for _, rec := range rs {
		r.Register(rec)
	}
	return r
}

// Register adds rec to the registry.
func (r *Registry) Register(rec Recipe) {
	name := rec.Info().Name
	if _, dup := r.recipes[name]; dup {
		panic(fmt.Sprintf("formula: recipe %s registered twice", name))
	}
	r.recipes[name] = rec
}

// Lookup returns the recipe called name.
func (r *Registry) Lookup(name string) (Recipe, error) {
	rec, ok := r.recipes[name]
	if !ok {
		return nil, &RecipeError{Recipe: name, Err: ErrRecipeNotFound}
	}
	return rec, nil
}

// Has reports whether a recipe called name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.recipes[name]
	return ok
}

// Names returns all recipe names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.recipes))
}
