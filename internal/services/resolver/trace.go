package resolver

// trace records which path membership checks a resolution depended on.
// entered holds recipes that were not on the caller's path and got crafted,
// refused holds recipes skipped because they were already on the caller's path.
type trace struct {
	entered map[string]struct{}
	refused map[string]struct{}
	// reach entered recipes of other components were dropped; all of them
	// belong to components numbered below reach.
	reach int
	// height number of nested recipe levels entered below the item.
	height int
	// bounded the depth limit cut at least one branch.
	bounded bool
}

func (t *trace) enter(recipeID string) {
	if t.entered == nil {
		t.entered = make(map[string]struct{})
	}
	t.entered[recipeID] = struct{}{}
}

func (t *trace) refuse(recipeID string) {
	if t.refused == nil {
		t.refused = make(map[string]struct{})
	}
	t.refused[recipeID] = struct{}{}
}

// absorb copies the child trace into t. The child is left untouched.
func (t *trace) absorb(child trace) {
	for id := range child.entered {
		t.enter(id)
	}
	for id := range child.refused {
		t.refuse(id)
	}
	t.reach = max(t.reach, child.reach)
	t.height = max(t.height, child.height)
	t.bounded = t.bounded || child.bounded
}

// lift converts the trace of a recipe's materials, taken on path+recipe,
// into the trace of the item the recipe produces, taken on path.
func lift(recipeID string, materials trace) trace {
	var t trace
	t.absorb(materials)
	delete(t.refused, recipeID)
	t.enter(recipeID)
	t.height = materials.height + 1
	return t
}

// confine keeps only the entered recipes of component own and folds the others into reach.
// Recipes of lower components can never be entered above an item of component own,
// so only seed recipes have to be checked against them.
func (t *trace) confine(comps map[string]int, own int) {
	for id := range t.entered {
		if c := comps[id]; c != own {
			delete(t.entered, id)
			t.reach = max(t.reach, c+1)
		}
	}
}

// reusableOn reports whether a resolution with this trace would be computed
// identically on the given stack at the given depth.
func (t trace) reusableOn(s *stack, seedComps []int, depth, maxDepth int) bool {
	if t.bounded || depth+t.height > maxDepth {
		return false
	}
	for _, c := range seedComps {
		if c < t.reach {
			return false
		}
	}
	for id := range t.entered {
		if s.contains(id) {
			return false
		}
	}
	for id := range t.refused {
		if !s.contains(id) {
			return false
		}
	}
	return true
}
