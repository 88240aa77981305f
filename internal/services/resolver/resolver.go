// Package resolver computes the cheapest per-unit acquisition cost of an item,
// comparing its market price against the cost of crafting it recursively.
package resolver

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

type priceLookup interface {
	Price(itemID string) decimal.Decimal
}

// Resolution unit cost of an item together with the candidates it was chosen from.
type Resolution struct {
	ItemID string
	// Market effective market price, zero when unknown.
	Market decimal.Decimal
	// Crafted unit cost of crafting the item, invalid when no crafting path was usable
	// or when an override short-circuited the computation.
	Crafted decimal.NullDecimal
	// Cost the chosen unit cost.
	Cost domain.Cost
}

// Savings returns the per unit saving of crafting over buying, market minus crafted.
// Zero unless crafting won; negative when the market price is unknown.
func (r Resolution) Savings() decimal.Decimal {
	if r.Cost.Source != domain.CostSourceCrafted {
		return decimal.Zero
	}
	return r.Market.Sub(r.Cost.Value)
}

type memoEntry struct {
	res   Resolution
	trace trace
}

// Resolver resolves unit costs for one evaluation pass.
// It must not be reused after the overrides or the market change.
type Resolver struct {
	l         *zap.Logger
	producers map[string]domain.Recipe
	overrides map[string]decimal.Decimal
	market    priceLookup
	maxDepth  int
	memoize   bool
	memo      map[string][]memoEntry
	depthHits int
	crafts    int

	// comps component number of every producing recipe
	comps map[string]int

	// state of the running Resolve call
	stack     *stack
	seedComps []int
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the maximum number of nested recipe levels on a path.
// By default the bound is the number of producing recipes, which a path of
// distinct recipes never exceeds. A lower bound cuts deeper crafting branches.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithoutMemo disables reuse of resolutions across paths.
func WithoutMemo() Option {
	return func(r *Resolver) {
		r.memoize = false
	}
}

// New creates a resolver over the producer index, the overrides and the market.
// producers maps a result item to the recipe crafting it.
func New(l *zap.Logger, producers map[string]domain.Recipe, overrides map[string]decimal.Decimal,
	market priceLookup, opts ...Option) *Resolver {
	if overrides == nil {
		overrides = map[string]decimal.Decimal{}
	}

	r := &Resolver{
		l:         l,
		producers: producers,
		overrides: overrides,
		market:    market,
		maxDepth:  len(producers) + 1,
		memoize:   true,
		memo:      make(map[string][]memoEntry),
		comps:     components(producers),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// UnitCost returns the cheapest unit cost of the item given the recipes already being crafted.
func (r *Resolver) UnitCost(itemID string, inProgress Path) domain.Cost {
	return r.Resolve(itemID, inProgress).Cost
}

// Resolve returns the unit cost of the item and the market and crafted candidates.
func (r *Resolver) Resolve(itemID string, inProgress Path) Resolution {
	r.stack = newStack(inProgress)
	r.seedComps = r.seedComps[:0]
	for id := range inProgress.ids {
		if c, ok := r.comps[id]; ok {
			r.seedComps = append(r.seedComps, c)
		}
	}

	res, _ := r.resolve(itemID, 0)
	return res
}

// Expansions returns how many times a recipe was expanded into its materials.
func (r *Resolver) Expansions() int {
	return r.crafts
}

// DepthLimitHits returns how many branches were cut by the depth bound.
func (r *Resolver) DepthLimitHits() int {
	return r.depthHits
}

func (r *Resolver) resolve(itemID string, depth int) (Resolution, trace) {
	market := r.market.Price(itemID)

	// override wins over everything and stops the descent
	if cost, ok := r.overrides[itemID]; ok {
		return Resolution{ItemID: itemID, Market: market, Cost: domain.OverrideCost(cost)}, trace{}
	}

	if r.memoize {
		for _, e := range r.memo[itemID] {
			if e.trace.reusableOn(r.stack, r.seedComps, depth, r.maxDepth) {
				return e.res, e.trace
			}
		}
	}

	res := Resolution{ItemID: itemID, Market: market}
	var t trace

	if recipe, ok := r.producers[itemID]; ok {
		switch {
		case r.stack.contains(recipe.ID):
			t.refuse(recipe.ID)
		case depth >= r.maxDepth:
			t.bounded = true
			r.depthHits++
			if r.depthHits == 1 {
				r.l.Warn("recipe depth limit reached, crafting branch skipped",
					zap.String("item", itemID),
					zap.String("recipe", recipe.ID),
					zap.Int("max_depth", r.maxDepth))
			}
		default:
			r.stack.push(recipe.ID)
			crafted, craftable, materials := r.craft(recipe, depth+1)
			r.stack.pop(recipe.ID)
			t = lift(recipe.ID, materials)
			t.confine(r.comps, r.comps[recipe.ID])
			if craftable {
				res.Crafted = decimal.NewNullDecimal(crafted)
			}
		}
	}

	res.Cost = choose(market, res.Crafted)

	if r.memoize && !t.bounded {
		r.memo[itemID] = append(r.memo[itemID], memoEntry{res: res, trace: t})
	}

	return res, t
}

// craft returns the per unit cost of crafting the recipe, which is already on the stack.
// The result is not craftable when any material is unpriced.
func (r *Resolver) craft(recipe domain.Recipe, depth int) (decimal.Decimal, bool, trace) {
	r.crafts++

	var t trace
	total := decimal.Zero

	for _, m := range recipe.Materials {
		sub, subTrace := r.resolve(m.ItemID, depth)
		t.absorb(subTrace)
		if !sub.Cost.Priced() {
			return decimal.Zero, false, t
		}
		total = total.Add(sub.Cost.Value.Mul(decimal.NewFromInt(m.Quantity)))
	}

	if recipe.ResultQuantity < 1 {
		return decimal.Zero, false, t
	}

	return total.Div(decimal.NewFromInt(recipe.ResultQuantity)), true, t
}

// choose prefers the crafted cost when it is cheaper than the market or the market price is unknown.
func choose(market decimal.Decimal, crafted decimal.NullDecimal) domain.Cost {
	if crafted.Valid && (market.IsZero() || crafted.Decimal.LessThan(market)) {
		return domain.CraftedCost(crafted.Decimal)
	}
	if market.IsPositive() {
		return domain.MarketCost(market)
	}
	return domain.Unpriced()
}
