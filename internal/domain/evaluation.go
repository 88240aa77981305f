package domain

import "github.com/shopspring/decimal"

// ResolvedMaterial cost breakdown of one recipe material.
type ResolvedMaterial struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
	// MarketUnitCost effective market price, zero when unknown.
	MarketUnitCost decimal.Decimal `json:"market_unit_cost"`
	// CraftedUnitCost cost of crafting one unit, invalid when no crafting path was usable.
	CraftedUnitCost decimal.NullDecimal `json:"crafted_unit_cost"`
	// Cost chosen unit cost and its source.
	Cost Cost `json:"cost"`
	// TotalCost effective unit cost multiplied by quantity.
	TotalCost decimal.Decimal `json:"total_cost"`
	// SavingsVsMarket per unit saving of crafting over buying.
	SavingsVsMarket decimal.Decimal `json:"savings_vs_market"`
}

// EffectiveUnitCost returns the chosen unit cost; zero for unpriced materials.
func (m ResolvedMaterial) EffectiveUnitCost() decimal.Decimal {
	return m.Cost.Value
}

// Source returns where the unit cost comes from.
func (m ResolvedMaterial) Source() CostSource {
	return m.Cost.Source
}

// EvaluatedRecipe financial metrics of one recipe for a single evaluation pass.
type EvaluatedRecipe struct {
	Recipe             Recipe             `json:"recipe"`
	Materials          []ResolvedMaterial `json:"materials"`
	TotalMaterialsCost decimal.Decimal    `json:"total_materials_cost"`
	ResultUnitValue    decimal.Decimal    `json:"result_unit_value"`
	TotalResultValue   decimal.Decimal    `json:"total_result_value"`
	Profit             decimal.Decimal    `json:"profit"`
	MarginPercent      decimal.Decimal    `json:"margin_percent"`
	ROIPercent         decimal.Decimal    `json:"roi_percent"`
	// AllMaterialsPriced false means profit figures are provisional.
	AllMaterialsPriced bool            `json:"all_materials_priced"`
	TotalSavings       decimal.Decimal `json:"total_savings"`
}

// Provisional reports whether at least one material could not be priced.
func (e EvaluatedRecipe) Provisional() bool {
	return !e.AllMaterialsPriced
}

// Clone returns a copy that shares no slices with e.
func (e EvaluatedRecipe) Clone() EvaluatedRecipe {
	out := e
	out.Recipe.Materials = append([]Material(nil), e.Recipe.Materials...)
	out.Materials = append([]ResolvedMaterial(nil), e.Materials...)
	return out
}

// ProfessionProfit summed positive profit of a profession.
type ProfessionProfit struct {
	Profession string          `json:"profession"`
	Profit     decimal.Decimal `json:"profit"`
	Recipes    int             `json:"recipes"`
}
