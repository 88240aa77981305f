package internal

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/catalog"
	"github.com/vadiminshakov/craftcost/internal/domain"
	"github.com/vadiminshakov/craftcost/internal/market"
	"github.com/vadiminshakov/craftcost/internal/overrides"
	"github.com/vadiminshakov/craftcost/internal/services/evaluator"
	"github.com/vadiminshakov/craftcost/internal/services/resolver"
	"github.com/vadiminshakov/craftcost/internal/services/resultset"
)

// Engine is the single entry point of consumers: it owns the catalog, the market
// snapshot and the override table and re-evaluates every recipe after each override change.
// An Engine is meant for one logical caller.
type Engine struct {
	l         *zap.Logger
	catalog   *catalog.Catalog
	market    *market.Snapshot
	overrides *overrides.Table
	evaluator *evaluator.Evaluator
	view      *resultset.View

	// evaluated is nil when an override changed since the last pass
	evaluated []domain.EvaluatedRecipe
	index     map[string]int
}

// NewEngine validates the input feed and builds an engine without overrides.
func NewEngine(l *zap.Logger, recipes []domain.Recipe, quotes []domain.MarketQuote, opts ...resolver.Option) (*Engine, error) {
	cat, err := catalog.New(l, recipes)
	if err != nil {
		return nil, errors.Wrap(err, "build recipe catalog")
	}

	snap, err := market.NewSnapshot(quotes)
	if err != nil {
		return nil, errors.Wrap(err, "build market snapshot")
	}

	return &Engine{
		l:         l,
		catalog:   cat,
		market:    snap,
		overrides: overrides.NewTable(),
		evaluator: evaluator.New(l, opts...),
		view:      resultset.NewView(),
	}, nil
}

// SetOverride makes cost the authoritative unit cost of the item.
// Negative costs are rejected with domain.ErrInvalidOverride and leave prior overrides untouched.
func (e *Engine) SetOverride(itemID string, cost decimal.Decimal) error {
	if err := e.overrides.Set(itemID, cost); err != nil {
		return err
	}
	e.invalidate()
	e.l.Debug("override set", zap.String("item", itemID), zap.String("cost", cost.String()))
	return nil
}

// ClearOverride removes the override of the item. Returns false when there was none.
func (e *Engine) ClearOverride(itemID string) bool {
	if !e.overrides.Clear(itemID) {
		return false
	}
	e.invalidate()
	e.l.Debug("override cleared", zap.String("item", itemID))
	return true
}

// Overrides returns a copy of the current overrides.
func (e *Engine) Overrides() map[string]decimal.Decimal {
	return e.overrides.Snapshot()
}

// Catalog returns the recipe catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Market returns the market snapshot.
func (e *Engine) Market() *market.Snapshot {
	return e.market
}

func (e *Engine) invalidate() {
	e.evaluated = nil
	e.index = nil
}

// Evaluate returns every evaluated recipe in catalog order, running a full pass
// when an override changed since the previous one.
func (e *Engine) Evaluate() ([]domain.EvaluatedRecipe, error) {
	if err := e.ensureEvaluated(); err != nil {
		return nil, err
	}

	out := make([]domain.EvaluatedRecipe, len(e.evaluated))
	for i, ev := range e.evaluated {
		out[i] = ev.Clone()
	}
	return out, nil
}

func (e *Engine) ensureEvaluated() error {
	if e.evaluated != nil {
		return nil
	}

	passID := uuid.NewString()
	started := time.Now()

	evaluated, err := e.evaluator.Evaluate(e.catalog, e.market, e.overrides.Snapshot())
	if err != nil {
		return errors.Wrap(err, "evaluate recipes")
	}

	index := make(map[string]int, len(evaluated))
	provisional := 0
	for i, ev := range evaluated {
		index[ev.Recipe.ID] = i
		if ev.Provisional() {
			provisional++
		}
	}

	e.evaluated = evaluated
	e.index = index

	e.l.Debug("evaluation pass finished",
		zap.String("pass_id", passID),
		zap.Int("recipes", len(evaluated)),
		zap.Int("provisional", provisional),
		zap.Int("overrides", e.overrides.Len()),
		zap.Duration("took", time.Since(started)))

	return nil
}

// EvaluateAndProject evaluates the catalog and returns the requested page.
// A page outside the available range keeps the page returned last.
func (e *Engine) EvaluateAndProject(q resultset.Query) (resultset.Page, error) {
	if err := e.ensureEvaluated(); err != nil {
		return resultset.Page{}, err
	}
	page, err := e.view.Project(e.evaluated, q)
	if err != nil {
		return resultset.Page{}, err
	}
	for i := range page.Items {
		page.Items[i] = page.Items[i].Clone()
	}
	return page, nil
}

// Recipe returns the evaluation of a single recipe.
func (e *Engine) Recipe(id string) (domain.EvaluatedRecipe, error) {
	if err := e.ensureEvaluated(); err != nil {
		return domain.EvaluatedRecipe{}, err
	}

	idx, ok := e.index[id]
	if !ok {
		return domain.EvaluatedRecipe{}, errors.Wrapf(domain.ErrRecipeNotFound, "recipe %s", id)
	}
	return e.evaluated[idx].Clone(), nil
}

// ProfitByProfession sums the positive profits of every profession, ordered by profession.
func (e *Engine) ProfitByProfession() ([]domain.ProfessionProfit, error) {
	if err := e.ensureEvaluated(); err != nil {
		return nil, err
	}

	totals := make(map[string]*domain.ProfessionProfit)
	for _, ev := range e.evaluated {
		p, ok := totals[ev.Recipe.Profession]
		if !ok {
			p = &domain.ProfessionProfit{Profession: ev.Recipe.Profession, Profit: decimal.Zero}
			totals[ev.Recipe.Profession] = p
		}
		if ev.Profit.IsPositive() {
			p.Profit = p.Profit.Add(ev.Profit)
			p.Recipes++
		}
	}

	out := make([]domain.ProfessionProfit, 0, len(totals))
	for _, p := range totals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Profession < out[j].Profession
	})

	return out, nil
}
