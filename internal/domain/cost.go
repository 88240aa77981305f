package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostSource tells where the unit cost of an item comes from.
type CostSource int

const (
	// CostSourceUnpriced no market price and no usable crafting path.
	CostSourceUnpriced CostSource = iota
	CostSourceMarket
	CostSourceCrafted
	CostSourceOverride
)

const (
	costSourceStringUnpriced = "unpriced"
	costSourceStringMarket   = "market"
	costSourceStringCrafted  = "crafted"
	costSourceStringOverride = "override"
)

// String returns the string representation of the cost source.
func (s CostSource) String() string {
	switch s {
	case CostSourceMarket:
		return costSourceStringMarket
	case CostSourceCrafted:
		return costSourceStringCrafted
	case CostSourceOverride:
		return costSourceStringOverride
	default:
		return costSourceStringUnpriced
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CostSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CostSource) UnmarshalText(text []byte) error {
	switch string(text) {
	case costSourceStringUnpriced:
		*s = CostSourceUnpriced
	case costSourceStringMarket:
		*s = CostSourceMarket
	case costSourceStringCrafted:
		*s = CostSourceCrafted
	case costSourceStringOverride:
		*s = CostSourceOverride
	default:
		return fmt.Errorf("unknown cost source %q", string(text))
	}

	return nil
}

// Cost unit cost of an item tagged with its source.
// An unpriced cost always carries a zero value.
type Cost struct {
	Source CostSource      `json:"source"`
	Value  decimal.Decimal `json:"value"`
}

// Unpriced returns the cost of an item nobody can price.
func Unpriced() Cost {
	return Cost{Source: CostSourceUnpriced, Value: decimal.Zero}
}

// MarketCost returns a market sourced cost.
func MarketCost(v decimal.Decimal) Cost {
	return Cost{Source: CostSourceMarket, Value: v}
}

// CraftedCost returns a crafting sourced cost.
func CraftedCost(v decimal.Decimal) Cost {
	return Cost{Source: CostSourceCrafted, Value: v}
}

// OverrideCost returns an operator supplied cost.
func OverrideCost(v decimal.Decimal) Cost {
	return Cost{Source: CostSourceOverride, Value: v}
}

// Priced reports whether a finite cost is known.
func (c Cost) Priced() bool {
	return c.Source != CostSourceUnpriced
}

// String returns the string representation.
func (c Cost) String() string {
	if !c.Priced() {
		return costSourceStringUnpriced
	}
	return fmt.Sprintf("%s(%s)", c.Source, c.Value.String())
}
