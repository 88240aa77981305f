// Package catalog holds the validated set of recipe definitions.
package catalog

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// Catalog immutable, ordered set of recipes.
type Catalog struct {
	recipes []domain.Recipe
	byID    map[string]int
}

// New validates the recipes and returns a catalog preserving their order.
// A nil slice means the feed is absent. Duplicate recipe ids are malformed input.
func New(l *zap.Logger, recipes []domain.Recipe) (*Catalog, error) {
	if recipes == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "recipe catalog is missing")
	}

	c := &Catalog{
		recipes: make([]domain.Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	producers := make(map[string]string, len(recipes))

	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[r.ID]; exists {
			return nil, errors.Wrapf(domain.ErrDataUnavailable, "duplicate recipe id %s", r.ID)
		}

		if first, exists := producers[r.ResultItemID]; exists {
			l.Debug("item has more than one producer, keeping the first",
				zap.String("item", r.ResultItemID),
				zap.String("kept", first),
				zap.String("ignored", r.ID))
		} else {
			producers[r.ResultItemID] = r.ID
		}

		r.Materials = append([]domain.Material(nil), r.Materials...)
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}

	return c, nil
}

// Recipes returns the recipes in catalog order.
func (c *Catalog) Recipes() []domain.Recipe {
	return c.recipes
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Recipe returns the recipe with the given id.
func (c *Catalog) Recipe(id string) (domain.Recipe, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.Recipe{}, false
	}
	return c.recipes[idx], true
}

// Producers builds a fresh index from result item to the recipe crafting it.
// When several recipes yield the same item the first one in catalog order is used.
func (c *Catalog) Producers() map[string]domain.Recipe {
	index := make(map[string]domain.Recipe, len(c.recipes))
	for _, r := range c.recipes {
		if _, exists := index[r.ResultItemID]; exists {
			continue
		}
		index[r.ResultItemID] = r
	}
	return index
}

// Professions returns the distinct professions in order of first appearance.
func (c *Catalog) Professions() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range c.recipes {
		if _, ok := seen[r.Profession]; ok {
			continue
		}
		seen[r.Profession] = struct{}{}
		out = append(out, r.Profession)
	}
	return out
}
