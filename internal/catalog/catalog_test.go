package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

func recipe(id, result string, materials ...domain.Material) domain.Recipe {
	return domain.Recipe{ID: id, Name: id, Profession: "smithing", ResultItemID: result, ResultQuantity: 1, Materials: materials}
}

func TestNew(t *testing.T) {
	t.Run("missing feed", func(t *testing.T) {
		_, err := New(zap.NewNop(), nil)
		require.ErrorIs(t, err, domain.ErrDataUnavailable)
	})

	t.Run("invalid recipe", func(t *testing.T) {
		bad := recipe("bar", "iron_bar")
		bad.ResultQuantity = 0
		_, err := New(zap.NewNop(), []domain.Recipe{bad})
		require.ErrorIs(t, err, domain.ErrDataUnavailable)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := New(zap.NewNop(), []domain.Recipe{recipe("bar", "iron_bar"), recipe("bar", "steel_bar")})
		require.ErrorIs(t, err, domain.ErrDataUnavailable)
		assert.Contains(t, err.Error(), "duplicate recipe id bar")
	})

	t.Run("empty catalog", func(t *testing.T) {
		c, err := New(zap.NewNop(), []domain.Recipe{})
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})
}

func TestCatalog_Lookups(t *testing.T) {
	recipes := []domain.Recipe{
		recipe("bar_a", "iron_bar", domain.Material{ItemID: "ore", Quantity: 2}),
		recipe("bar_b", "iron_bar", domain.Material{ItemID: "scrap", Quantity: 5}),
		recipe("sword", "iron_sword", domain.Material{ItemID: "iron_bar", Quantity: 3}),
	}
	recipes[2].Profession = "weaponsmith"

	c, err := New(zap.NewNop(), recipes)
	require.NoError(t, err)

	r, ok := c.Recipe("sword")
	require.True(t, ok)
	assert.Equal(t, "iron_sword", r.ResultItemID)

	_, ok = c.Recipe("shield")
	assert.False(t, ok)

	producers := c.Producers()
	assert.Equal(t, "bar_a", producers["iron_bar"].ID)
	assert.Len(t, producers, 2)

	// each call builds a new index
	delete(producers, "iron_bar")
	assert.Contains(t, c.Producers(), "iron_bar")

	assert.Equal(t, []string{"smithing", "weaponsmith"}, c.Professions())
}

func TestCatalog_DoesNotAliasInput(t *testing.T) {
	recipes := []domain.Recipe{recipe("bar", "iron_bar", domain.Material{ItemID: "ore", Quantity: 2})}
	c, err := New(zap.NewNop(), recipes)
	require.NoError(t, err)

	recipes[0].Materials[0].Quantity = 99
	got, _ := c.Recipe("bar")
	assert.Equal(t, int64(2), got.Materials[0].Quantity)
}
