// Package feed loads market quotes and recipe definitions from files or URLs.
//
// Both documents are YAML or JSON objects:
//
//	quotes:
//	  - item_id: iron_ore
//	    name: Iron Ore
//	    best_buyout: 12.5
//	    market_value: 14
//	    quantity: 320
//
//	recipes:
//	  - id: smelt_iron
//	    name: Iron Bar
//	    profession: smithing
//	    skill_level: 10
//	    result_item_id: iron_bar
//	    result_quantity: 1
//	    materials:
//	      - item_id: iron_ore
//	        quantity: 2
package feed

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// Data the two input collections of the engine.
type Data struct {
	Quotes  []domain.MarketQuote
	Recipes []domain.Recipe
}

type quotesDocument struct {
	Quotes []domain.MarketQuote `yaml:"quotes"`
}

type recipesDocument struct {
	Recipes []domain.Recipe `yaml:"recipes"`
}

// Loader loads and decodes feed documents.
type Loader struct {
	l       *zap.Logger
	fetcher Fetcher
}

// NewLoader creates a loader reading documents through the fetcher.
func NewLoader(l *zap.Logger, fetcher Fetcher) *Loader {
	return &Loader{l: l, fetcher: fetcher}
}

// Load fetches and decodes both collections concurrently.
// Any failure is reported as domain.ErrDataUnavailable.
func (ld *Loader) Load(ctx context.Context, quotesSource, recipesSource string) (Data, error) {
	var data Data

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		payload, err := ld.fetcher.Fetch(gctx, quotesSource)
		if err != nil {
			return unavailable(err, "quotes from %s", quotesSource)
		}
		quotes, err := DecodeQuotes(payload)
		if err != nil {
			return errors.Wrapf(err, "quotes from %s", quotesSource)
		}
		data.Quotes = quotes
		return nil
	})
	g.Go(func() error {
		payload, err := ld.fetcher.Fetch(gctx, recipesSource)
		if err != nil {
			return unavailable(err, "recipes from %s", recipesSource)
		}
		recipes, err := DecodeRecipes(payload)
		if err != nil {
			return errors.Wrapf(err, "recipes from %s", recipesSource)
		}
		data.Recipes = recipes
		return nil
	})

	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	ld.l.Info("feed loaded",
		zap.String("quotes_source", quotesSource),
		zap.Int("quotes", len(data.Quotes)),
		zap.String("recipes_source", recipesSource),
		zap.Int("recipes", len(data.Recipes)))

	return data, nil
}

// DecodeQuotes decodes a quotes document. A document without a quotes key is rejected.
func DecodeQuotes(payload []byte) ([]domain.MarketQuote, error) {
	var doc quotesDocument
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, unavailable(err, "decode quotes")
	}
	if doc.Quotes == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "document has no quotes")
	}
	return doc.Quotes, nil
}

// DecodeRecipes decodes a recipes document. A document without a recipes key is rejected.
func DecodeRecipes(payload []byte) ([]domain.Recipe, error) {
	var doc recipesDocument
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, unavailable(err, "decode recipes")
	}
	if doc.Recipes == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "document has no recipes")
	}
	return doc.Recipes, nil
}

// unavailable marks err as domain.ErrDataUnavailable and keeps err itself reachable through errors.Is.
func unavailable(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, fmt.Sprintf(format, args...), err)
}
