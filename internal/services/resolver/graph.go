package resolver

import (
	"sort"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// components numbers the strongly connected components of the recipe graph,
// where a recipe points at the producers of its materials.
// A component only reaches components with a smaller number.
func components(producers map[string]domain.Recipe) map[string]int {
	items := make([]string, 0, len(producers))
	for item := range producers {
		items = append(items, item)
	}
	sort.Strings(items)

	t := tarjan{
		producers: producers,
		index:     make(map[string]int, len(producers)),
		low:       make(map[string]int, len(producers)),
		onStack:   make(map[string]bool, len(producers)),
		comp:      make(map[string]int, len(producers)),
	}
	for _, item := range items {
		recipe := producers[item]
		if _, seen := t.index[recipe.ID]; !seen {
			t.visit(recipe)
		}
	}

	return t.comp
}

type tarjan struct {
	producers map[string]domain.Recipe
	next      int
	count     int
	index     map[string]int
	low       map[string]int
	stack     []string
	onStack   map[string]bool
	comp      map[string]int
}

func (t *tarjan) visit(r domain.Recipe) {
	t.index[r.ID] = t.next
	t.low[r.ID] = t.next
	t.next++
	t.stack = append(t.stack, r.ID)
	t.onStack[r.ID] = true

	for _, m := range r.Materials {
		dep, ok := t.producers[m.ItemID]
		if !ok {
			continue
		}
		if _, seen := t.index[dep.ID]; !seen {
			t.visit(dep)
			t.low[r.ID] = min(t.low[r.ID], t.low[dep.ID])
		} else if t.onStack[dep.ID] {
			t.low[r.ID] = min(t.low[r.ID], t.index[dep.ID])
		}
	}

	if t.low[r.ID] != t.index[r.ID] {
		return
	}

	for {
		id := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[id] = false
		t.comp[id] = t.count
		if id == r.ID {
			break
		}
	}
	t.count++
}
