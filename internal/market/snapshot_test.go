package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

func TestNewSnapshot(t *testing.T) {
	t.Run("missing feed", func(t *testing.T) {
		s, err := NewSnapshot(nil)
		require.ErrorIs(t, err, domain.ErrDataUnavailable)
		assert.Nil(t, s)
	})

	t.Run("empty feed", func(t *testing.T) {
		s, err := NewSnapshot([]domain.MarketQuote{})
		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
		assert.True(t, s.Price("ore").IsZero())
	})

	t.Run("malformed quote", func(t *testing.T) {
		_, err := NewSnapshot([]domain.MarketQuote{{ItemID: "ore"}, {DisplayName: "nameless"}})
		require.ErrorIs(t, err, domain.ErrDataUnavailable)
		assert.Contains(t, err.Error(), "quote #1")
	})
}

func TestSnapshot_Lookup(t *testing.T) {
	s, err := NewSnapshot([]domain.MarketQuote{
		{ItemID: "ore", DisplayName: "Iron Ore", BestBuyout: decimal.NewFromInt(10), MarketValue: decimal.NewFromInt(14)},
		{ItemID: "coal", MarketValue: decimal.NewFromInt(3)},
		{ItemID: "dust"},
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(10).Equal(s.Price("ore")))
	assert.True(t, decimal.NewFromInt(3).Equal(s.Price("coal")))
	assert.True(t, s.Price("dust").IsZero())
	assert.True(t, s.Price("unknown").IsZero())

	assert.Equal(t, "Iron Ore", s.DisplayName("ore"))
	assert.Equal(t, "coal", s.DisplayName("coal"))

	_, ok := s.Quote("unknown")
	assert.False(t, ok)
}
