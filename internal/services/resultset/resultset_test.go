package resultset

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

func evaluated(id, name, profession string, profit int64) domain.EvaluatedRecipe {
	return domain.EvaluatedRecipe{
		Recipe: domain.Recipe{ID: id, Name: name, Profession: profession},
		Profit: decimal.NewFromInt(profit),
	}
}

// sample returns n recipes with profits 0..n-1 in a shuffled order.
func sample(n int) []domain.EvaluatedRecipe {
	out := make([]domain.EvaluatedRecipe, 0, n)
	for i := 0; i < n; i++ {
		profit := int64((i * 37) % n)
		profession := "smithing"
		if i%2 == 1 {
			profession = "tailoring"
		}
		out = append(out, evaluated(fmt.Sprintf("r%d", i), fmt.Sprintf("Recipe %d", i), profession, profit))
	}
	return out
}

func TestProject_RoundTrip(t *testing.T) {
	recipes := sample(120)
	q := Query{Sort: SortByProfit, Descending: true, Page: 1, PageSize: 50}

	view := NewView()
	page, err := view.Project(recipes, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 50)
	assert.Equal(t, 120, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, decimal.NewFromInt(119).Equal(page.Items[0].Profit))

	q.Page = 3
	page, err = view.Project(recipes, q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)
	assert.Equal(t, 3, page.Page)
	assert.True(t, page.Items[19].Profit.IsZero())
}

func TestProject_OutOfRangePageIsNoop(t *testing.T) {
	recipes := sample(120)
	view := NewView()

	_, err := view.Project(recipes, Query{Sort: SortByProfit, Page: 2, PageSize: 50})
	require.NoError(t, err)

	for _, requested := range []int{0, -1, 4, 100} {
		page, err := view.Project(recipes, Query{Sort: SortByProfit, Page: requested, PageSize: 50})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page, "requested page %d", requested)
		assert.Len(t, page.Items, 50)
	}
	assert.Equal(t, 2, view.CurrentPage())
}

func TestProject_RetainedPageIsClamped(t *testing.T) {
	recipes := sample(120)
	view := NewView()

	_, err := view.Project(recipes, Query{Page: 3, PageSize: 50})
	require.NoError(t, err)

	// the filter leaves a single page
	page, err := view.Project(recipes, Query{Filter: Filter{MinProfit: decimal.NewFromInt(100)}, Page: 3, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 20)
}

func TestProject_Empty(t *testing.T) {
	page, err := NewView().Project(nil, Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestFilter(t *testing.T) {
	recipes := []domain.EvaluatedRecipe{
		evaluated("a", "A", "smithing", 10),
		evaluated("b", "B", "tailoring", 5),
		evaluated("c", "C", "smithing", -3),
		evaluated("d", "D", "smithing", 0),
	}

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{name: "Default drops losses", filter: Filter{}, expected: []string{"a", "b", "d"}},
		{name: "Profession", filter: Filter{Profession: "smithing"}, expected: []string{"a", "d"}},
		{name: "Min profit", filter: Filter{MinProfit: decimal.NewFromInt(5)}, expected: []string{"a", "b"}},
		{name: "Negative min profit keeps losses", filter: Filter{MinProfit: decimal.NewFromInt(-10)}, expected: []string{"a", "b", "c", "d"}},
		{name: "Unknown profession", filter: Filter{Profession: "alchemy"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, 0)
			for _, e := range Apply(recipes, tt.filter) {
				ids = append(ids, e.Recipe.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSort(t *testing.T) {
	recipes := []domain.EvaluatedRecipe{
		evaluated("a", "beta", "Smithing", 3),
		evaluated("b", "Alpha", "alchemy", 9),
		evaluated("c", "gamma", "Tailoring", 1),
	}

	require.NoError(t, Sort(recipes, SortByName, false))
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(recipes))

	require.NoError(t, Sort(recipes, SortByProfession, true))
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, names(recipes))

	require.NoError(t, Sort(recipes, SortByProfit, false))
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, names(recipes))

	require.NoError(t, Sort(recipes, SortByProfit, true))
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(recipes))

	assert.Error(t, Sort(recipes, SortKey("color"), true))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey(" ROI ")
	require.NoError(t, err)
	assert.Equal(t, SortByROI, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByProfit, key)

	_, err = ParseSortKey("color")
	assert.Error(t, err)
}

func names(recipes []domain.EvaluatedRecipe) []string {
	out := make([]string, 0, len(recipes))
	for _, e := range recipes {
		out = append(out, e.Recipe.Name)
	}
	return out
}
