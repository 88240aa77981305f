package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketQuote_EffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		quote    MarketQuote
		expected decimal.Decimal
	}{
		{
			name:     "Buyout wins when positive",
			quote:    MarketQuote{ItemID: "ore", BestBuyout: decimal.NewFromInt(12), MarketValue: decimal.NewFromInt(15)},
			expected: decimal.NewFromInt(12),
		},
		{
			name:     "Market value when no buyout",
			quote:    MarketQuote{ItemID: "ore", MarketValue: decimal.NewFromInt(15)},
			expected: decimal.NewFromInt(15),
		},
		{
			name:     "No price known",
			quote:    MarketQuote{ItemID: "ore"},
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(tt.quote.EffectivePrice()), "got %s", tt.quote.EffectivePrice())
		})
	}
}

func TestMarketQuote_Validate(t *testing.T) {
	require.NoError(t, MarketQuote{ItemID: "ore", BestBuyout: decimal.NewFromInt(1)}.Validate())

	err := MarketQuote{BestBuyout: decimal.NewFromInt(1)}.Validate()
	assert.ErrorIs(t, err, ErrDataUnavailable)

	err = MarketQuote{ItemID: "ore", MarketValue: decimal.NewFromInt(-1)}.Validate()
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestRecipe_Validate(t *testing.T) {
	valid := Recipe{
		ID:             "bar",
		ResultItemID:   "iron_bar",
		ResultQuantity: 1,
		Materials:      []Material{{ItemID: "iron_ore", Quantity: 2}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Recipe)
	}{
		{name: "Missing id", mutate: func(r *Recipe) { r.ID = "" }},
		{name: "Missing result item", mutate: func(r *Recipe) { r.ResultItemID = "" }},
		{name: "Zero result quantity", mutate: func(r *Recipe) { r.ResultQuantity = 0 }},
		{name: "Material without item", mutate: func(r *Recipe) { r.Materials = []Material{{Quantity: 1}} }},
		{name: "Material with zero quantity", mutate: func(r *Recipe) { r.Materials = []Material{{ItemID: "iron_ore"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.Materials = append([]Material(nil), valid.Materials...)
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrDataUnavailable)
		})
	}
}

func TestCostSource_Text(t *testing.T) {
	for _, s := range []CostSource{CostSourceUnpriced, CostSourceMarket, CostSourceCrafted, CostSourceOverride} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var decoded CostSource
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, s, decoded)
	}

	var s CostSource
	assert.Error(t, s.UnmarshalText([]byte("auction")))
}

func TestCost_JSON(t *testing.T) {
	payload, err := json.Marshal(CraftedCost(decimal.NewFromInt(80)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"crafted","value":"80"}`, string(payload))

	assert.False(t, Unpriced().Priced())
	assert.True(t, MarketCost(decimal.Zero).Priced())
	assert.Equal(t, "override(5)", OverrideCost(decimal.NewFromInt(5)).String())
}

func TestEvaluatedRecipe_Clone(t *testing.T) {
	orig := EvaluatedRecipe{
		Recipe:    Recipe{ID: "bar", Materials: []Material{{ItemID: "ore", Quantity: 2}}},
		Materials: []ResolvedMaterial{{ItemID: "ore", Quantity: 2, TotalCost: decimal.NewFromInt(20)}},
	}

	clone := orig.Clone()
	clone.Recipe.Materials[0].Quantity = 5
	clone.Materials[0].TotalCost = decimal.NewFromInt(50)

	assert.Equal(t, int64(2), orig.Recipe.Materials[0].Quantity)
	assert.True(t, decimal.NewFromInt(20).Equal(orig.Materials[0].TotalCost))
}
