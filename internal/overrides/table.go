// Package overrides holds operator supplied costs that win over any computed cost.
package overrides

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// Table mutable mapping from item identifier to manual cost.
type Table struct {
	mu    sync.RWMutex
	costs map[string]decimal.Decimal
}

// NewTable creates an empty override table.
func NewTable() *Table {
	return &Table{costs: make(map[string]decimal.Decimal)}
}

// Set records an override for the item. Negative costs are rejected and leave the table unchanged.
func (t *Table) Set(itemID string, cost decimal.Decimal) error {
	if itemID == "" {
		return errors.Wrap(domain.ErrInvalidOverride, "item id is required")
	}
	if cost.IsNegative() {
		return errors.Wrapf(domain.ErrInvalidOverride, "cost for %s must not be negative, got %s", itemID, cost.String())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.costs[itemID] = cost
	return nil
}

// Clear removes the override for the item. Returns false when there was none.
func (t *Table) Clear(itemID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.costs[itemID]; !ok {
		return false
	}
	delete(t.costs, itemID)
	return true
}

// Get returns the override for the item.
func (t *Table) Get(itemID string) (decimal.Decimal, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cost, ok := t.costs[itemID]
	return cost, ok
}

// Len returns the number of overrides.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.costs)
}

// Snapshot returns a copy of the table for a single evaluation pass.
func (t *Table) Snapshot() map[string]decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]decimal.Decimal, len(t.costs))
	for k, v := range t.costs {
		out[k] = v
	}
	return out
}

// ItemIDs returns the overridden item ids in lexical order.
func (t *Table) ItemIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.costs))
	for id := range t.costs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Parse parses an ITEM=COST command line argument.
func Parse(arg string) (string, decimal.Decimal, error) {
	itemID, rawCost, found := strings.Cut(arg, "=")
	itemID = strings.TrimSpace(itemID)
	if !found || itemID == "" {
		return "", decimal.Zero, errors.Wrapf(domain.ErrInvalidOverride, "expected ITEM=COST, got %q", arg)
	}

	cost, err := decimal.NewFromString(strings.TrimSpace(rawCost))
	if err != nil {
		return "", decimal.Zero, errors.Wrapf(domain.ErrInvalidOverride, "cost for %s is not a number: %q", itemID, rawCost)
	}
	if cost.IsNegative() {
		return "", decimal.Zero, errors.Wrapf(domain.ErrInvalidOverride, "cost for %s must not be negative, got %s", itemID, cost.String())
	}

	return itemID, cost, nil
}
