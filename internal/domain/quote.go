// Package domain defines core data structures used throughout the crafting cost engine.
package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MarketQuote external market data for a single item.
type MarketQuote struct {
	// ItemID item identifier the quote belongs to.
	ItemID string `json:"item_id" yaml:"item_id"`
	// DisplayName human readable item name.
	DisplayName string `json:"name" yaml:"name"`
	// BestBuyout cheapest listed price for one unit.
	BestBuyout decimal.Decimal `json:"best_buyout" yaml:"best_buyout"`
	// MarketValue aggregate market value for one unit.
	MarketValue decimal.Decimal `json:"market_value" yaml:"market_value"`
	// AvailableQuantity number of units currently listed.
	AvailableQuantity int64 `json:"quantity" yaml:"quantity"`
}

// EffectivePrice returns the best buyout if positive, otherwise the market value if positive.
// Zero means no market price is known.
func (q MarketQuote) EffectivePrice() decimal.Decimal {
	if q.BestBuyout.IsPositive() {
		return q.BestBuyout
	}
	if q.MarketValue.IsPositive() {
		return q.MarketValue
	}

	return decimal.Zero
}

// Validate checks that the quote has the fields the engine relies on.
func (q MarketQuote) Validate() error {
	if q.ItemID == "" {
		return errors.Wrap(ErrDataUnavailable, "market quote without item id")
	}
	if q.BestBuyout.IsNegative() || q.MarketValue.IsNegative() {
		return errors.Wrapf(ErrDataUnavailable, "market quote for %s has a negative price", q.ItemID)
	}
	if q.AvailableQuantity < 0 {
		return errors.Wrapf(ErrDataUnavailable, "market quote for %s has a negative quantity", q.ItemID)
	}

	return nil
}
