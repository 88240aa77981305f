package resolver

// Path recipe ids already being crafted when a resolution starts.
// A Path is never mutated after construction.
type Path struct {
	ids map[string]struct{}
}

// NewPath returns a path seeded with the given recipe ids.
func NewPath(recipeIDs ...string) Path {
	ids := make(map[string]struct{}, len(recipeIDs))
	for _, id := range recipeIDs {
		ids[id] = struct{}{}
	}
	return Path{ids: ids}
}

// Contains reports whether the recipe is already being crafted on this path.
func (p Path) Contains(recipeID string) bool {
	_, ok := p.ids[recipeID]
	return ok
}

// Len returns the number of recipes on the path.
func (p Path) Len() int {
	return len(p.ids)
}

// stack recipes on the current descent: the seed path plus every recipe entered below it.
// Entering and leaving a recipe is O(1), so deep chains do not copy the path per level.
type stack struct {
	ids map[string]int
}

func newStack(seed Path) *stack {
	ids := make(map[string]int, len(seed.ids))
	for id := range seed.ids {
		ids[id] = 1
	}
	return &stack{ids: ids}
}

func (s *stack) contains(recipeID string) bool {
	return s.ids[recipeID] > 0
}

func (s *stack) push(recipeID string) {
	s.ids[recipeID]++
}

func (s *stack) pop(recipeID string) {
	if s.ids[recipeID] <= 1 {
		delete(s.ids, recipeID)
		return
	}
	s.ids[recipeID]--
}
