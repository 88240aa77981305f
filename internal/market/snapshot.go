// Package market provides the immutable market quote lookup used by one evaluation pass.
package market

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// Snapshot immutable lookup from item identifier to market quote.
type Snapshot struct {
	quotes map[string]domain.MarketQuote
}

// NewSnapshot validates the quotes and indexes them by item.
// A nil slice means the feed is absent; an empty one is a valid, empty market.
// When an item is quoted twice the last quote wins.
func NewSnapshot(quotes []domain.MarketQuote) (*Snapshot, error) {
	if quotes == nil {
		return nil, errors.Wrap(domain.ErrDataUnavailable, "market snapshot is missing")
	}

	index := make(map[string]domain.MarketQuote, len(quotes))
	for i, q := range quotes {
		if err := q.Validate(); err != nil {
			return nil, errors.Wrapf(err, "quote #%d", i)
		}
		index[q.ItemID] = q
	}

	return &Snapshot{quotes: index}, nil
}

// Quote returns the quote for the item.
func (s *Snapshot) Quote(itemID string) (domain.MarketQuote, bool) {
	if s == nil {
		return domain.MarketQuote{}, false
	}
	q, ok := s.quotes[itemID]
	return q, ok
}

// Price returns the effective market price of the item, zero when unknown.
func (s *Snapshot) Price(itemID string) decimal.Decimal {
	q, ok := s.Quote(itemID)
	if !ok {
		return decimal.Zero
	}
	return q.EffectivePrice()
}

// DisplayName returns the quoted display name or the item id when there is none.
func (s *Snapshot) DisplayName(itemID string) string {
	if q, ok := s.Quote(itemID); ok && q.DisplayName != "" {
		return q.DisplayName
	}
	return itemID
}

// Len returns the number of quoted items.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.quotes)
}
