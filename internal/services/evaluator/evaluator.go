// Package evaluator rolls resolved material costs up into per recipe financial metrics.
package evaluator

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/domain"
	"github.com/vadiminshakov/craftcost/internal/services/resolver"
)

const percentageMultiplier = 100

type recipeSource interface {
	Recipes() []domain.Recipe
	Producers() map[string]domain.Recipe
}

type priceSource interface {
	Price(itemID string) decimal.Decimal
}

// Evaluator evaluates every recipe of a catalog against a market and a set of overrides.
type Evaluator struct {
	l    *zap.Logger
	opts []resolver.Option
}

// New creates an evaluator. The resolver options apply to every pass.
func New(l *zap.Logger, opts ...resolver.Option) *Evaluator {
	return &Evaluator{l: l, opts: opts}
}

// Evaluate resolves every recipe in catalog order. Inputs are never mutated.
// A missing catalog or market fails the whole pass.
func (e *Evaluator) Evaluate(recipes recipeSource, market priceSource, overrides map[string]decimal.Decimal) ([]domain.EvaluatedRecipe, error) {
	if recipes == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "recipe catalog is missing")
	}
	if market == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "market snapshot is missing")
	}

	r := resolver.New(e.l, recipes.Producers(), overrides, market, e.opts...)

	all := recipes.Recipes()
	out := make([]domain.EvaluatedRecipe, 0, len(all))
	for _, recipe := range all {
		out = append(out, evaluateRecipe(r, recipe, market, overrides))
	}

	if hits := r.DepthLimitHits(); hits > 0 {
		e.l.Warn("evaluation pass cut crafting branches at the depth limit", zap.Int("branches", hits))
	}
	e.l.Debug("recipes resolved", zap.Int("recipes", len(out)), zap.Int("expansions", r.Expansions()))

	return out, nil
}

func evaluateRecipe(r *resolver.Resolver, recipe domain.Recipe, market priceSource,
	overrides map[string]decimal.Decimal) domain.EvaluatedRecipe {
	// a recipe never crafts its own ingredients through itself
	path := resolver.NewPath(recipe.ID)

	ev := domain.EvaluatedRecipe{
		Recipe:             recipe,
		Materials:          make([]domain.ResolvedMaterial, 0, len(recipe.Materials)),
		TotalMaterialsCost: decimal.Zero,
		AllMaterialsPriced: true,
		TotalSavings:       decimal.Zero,
	}

	for _, m := range recipe.Materials {
		res := r.Resolve(m.ItemID, path)
		qty := decimal.NewFromInt(m.Quantity)

		rm := domain.ResolvedMaterial{
			ItemID:          m.ItemID,
			Quantity:        m.Quantity,
			MarketUnitCost:  res.Market,
			CraftedUnitCost: res.Crafted,
			Cost:            res.Cost,
			TotalCost:       res.Cost.Value.Mul(qty),
			SavingsVsMarket: res.Savings(),
		}
		if !res.Cost.Priced() {
			ev.AllMaterialsPriced = false
		}

		ev.Materials = append(ev.Materials, rm)
		ev.TotalMaterialsCost = ev.TotalMaterialsCost.Add(rm.TotalCost)
		ev.TotalSavings = ev.TotalSavings.Add(rm.SavingsVsMarket)
	}

	ev.ResultUnitValue = resultValue(recipe.ResultItemID, market, overrides)
	ev.TotalResultValue = ev.ResultUnitValue.Mul(decimal.NewFromInt(recipe.ResultQuantity))
	ev.Profit = ev.TotalResultValue.Sub(ev.TotalMaterialsCost)
	ev.ROIPercent = percentOf(ev.Profit, ev.TotalMaterialsCost)
	ev.MarginPercent = ev.ROIPercent

	return ev
}

// resultValue is what the market pays for the produced item; it is never crafted.
func resultValue(itemID string, market priceSource, overrides map[string]decimal.Decimal) decimal.Decimal {
	if v, ok := overrides[itemID]; ok {
		return v
	}
	return market.Price(itemID)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(percentageMultiplier))
}
