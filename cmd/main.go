// Command craftcost evaluates the profitability of crafting recipes against
// market quotes, choosing for every material whether buying or crafting is cheaper.
//
// Usage:
//
//	craftcost --config config.yaml
//	craftcost --quotes quotes.yaml --recipes recipes.yaml [--sort roi --page 2]
//	craftcost --config config.yaml --override iron_ore=3 --clear leather
//	craftcost --config config.yaml --recipe iron_sword
//	craftcost --setup
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/config"
	"github.com/vadiminshakov/craftcost/internal"
	"github.com/vadiminshakov/craftcost/internal/feed"
	"github.com/vadiminshakov/craftcost/internal/overrides"
	"github.com/vadiminshakov/craftcost/internal/render"
	"github.com/vadiminshakov/craftcost/internal/services/resolver"
	"github.com/vadiminshakov/craftcost/internal/services/resultset"
	"github.com/vadiminshakov/craftcost/internal/setup"
	"github.com/vadiminshakov/craftcost/internal/storage/journal"
	"github.com/vadiminshakov/craftcost/pkg/retrier"
)

const fetchTimeout = 30 * time.Second

func main() {
	cfg, actions, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if actions.Setup {
		if err := setup.RunTUI(actions.SetupPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, actions); err != nil {
		logger.Fatal("craftcost failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level == "debug" {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func run(ctx context.Context, l *zap.Logger, cfg config.Config, actions config.Actions) error {
	r := retrier.New(
		retrier.WithMaxRetries(cfg.FetchRetries),
		retrier.WithOnRetry(func(attempt int, err error) {
			l.Warn("feed download failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}),
	)
	loader := feed.NewLoader(l, feed.NewSourceFetcher(l, &http.Client{Timeout: fetchTimeout}, r))

	data, err := loader.Load(ctx, cfg.QuotesSource, cfg.RecipesSource)
	if err != nil {
		return err
	}

	engine, err := internal.NewEngine(l, data.Recipes, data.Quotes, resolver.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		return err
	}

	var store *journal.WALStore
	if cfg.OverridesDir != "" {
		store, err = journal.NewWALStore(cfg.OverridesDir)
		if err != nil {
			return err
		}
		defer store.Close()

		replayed, err := store.Replay(engine)
		if err != nil {
			return err
		}
		l.Info("overrides restored", zap.Int("commands", replayed), zap.Int("active", len(engine.Overrides())))
	}

	if err := applyOverrides(l, engine, store, actions); err != nil {
		return err
	}

	out := os.Stdout

	if actions.RecipeID != "" {
		e, err := engine.Recipe(actions.RecipeID)
		if err != nil {
			return err
		}
		return render.Recipe(out, e, engine.Market())
	}

	page, err := engine.EvaluateAndProject(resultset.Query{
		Filter:     resultset.Filter{Profession: cfg.Profession, MinProfit: cfg.MinProfit},
		Sort:       cfg.Sort,
		Descending: cfg.Descending,
		Page:       actions.Page,
		PageSize:   cfg.PageSize,
	})
	if err != nil {
		return err
	}
	if err := render.Page(out, page); err != nil {
		return err
	}

	if ov := engine.Overrides(); len(ov) > 0 {
		if err := render.Overrides(out, ov, engine.Market()); err != nil {
			return err
		}
	}

	if actions.Summary {
		profits, err := engine.ProfitByProfession()
		if err != nil {
			return err
		}
		return render.Professions(out, profits)
	}

	return nil
}

// applyOverrides applies command line override changes and journals them when a store is open.
func applyOverrides(l *zap.Logger, engine *internal.Engine, store *journal.WALStore, actions config.Actions) error {
	for _, arg := range actions.SetOverrides {
		itemID, cost, err := overrides.Parse(arg)
		if err != nil {
			return err
		}
		if err := engine.SetOverride(itemID, cost); err != nil {
			return err
		}
		if store != nil {
			if err := store.SaveSet(itemID, cost); err != nil {
				return err
			}
		}
		l.Info("override set", zap.String("item", itemID), zap.String("cost", cost.String()))
	}

	for _, itemID := range actions.Clear {
		if !engine.ClearOverride(itemID) {
			l.Warn("no override to clear", zap.String("item", itemID))
			continue
		}
		if store != nil {
			if err := store.SaveClear(itemID); err != nil {
				return err
			}
		}
		l.Info("override cleared", zap.String("item", itemID))
	}

	return nil
}
