// Package resultset filters, sorts and pages evaluated recipes for consumers.
package resultset

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/craftcost/internal/domain"
)

// DefaultPageSize is used when a query does not set a page size.
const DefaultPageSize = 50

// SortKey names the field results are ordered by.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByProfession SortKey = "profession"
	SortBySkill      SortKey = "skill"
	SortByCost       SortKey = "cost"
	SortByValue      SortKey = "value"
	SortByProfit     SortKey = "profit"
	SortByMargin     SortKey = "margin"
	SortByROI        SortKey = "roi"
	SortBySavings    SortKey = "savings"
)

// ParseSortKey validates a sort key given by a consumer.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return SortByProfit, nil
	}
	if _, ok := numericFields[key]; ok {
		return key, nil
	}
	if _, ok := stringFields[key]; ok {
		return key, nil
	}
	return "", errors.Errorf("unknown sort key %q", s)
}

var numericFields = map[SortKey]func(domain.EvaluatedRecipe) decimal.Decimal{
	SortBySkill:   func(e domain.EvaluatedRecipe) decimal.Decimal { return decimal.NewFromInt(int64(e.Recipe.SkillLevel)) },
	SortByCost:    func(e domain.EvaluatedRecipe) decimal.Decimal { return e.TotalMaterialsCost },
	SortByValue:   func(e domain.EvaluatedRecipe) decimal.Decimal { return e.TotalResultValue },
	SortByProfit:  func(e domain.EvaluatedRecipe) decimal.Decimal { return e.Profit },
	SortByMargin:  func(e domain.EvaluatedRecipe) decimal.Decimal { return e.MarginPercent },
	SortByROI:     func(e domain.EvaluatedRecipe) decimal.Decimal { return e.ROIPercent },
	SortBySavings: func(e domain.EvaluatedRecipe) decimal.Decimal { return e.TotalSavings },
}

var stringFields = map[SortKey]func(domain.EvaluatedRecipe) string{
	SortByName:       func(e domain.EvaluatedRecipe) string { return e.Recipe.Name },
	SortByProfession: func(e domain.EvaluatedRecipe) string { return e.Recipe.Profession },
}

// Filter keeps recipes of one profession (all when empty) earning at least MinProfit.
type Filter struct {
	Profession string
	MinProfit  decimal.Decimal
}

// Match reports whether the recipe passes the filter.
func (f Filter) Match(e domain.EvaluatedRecipe) bool {
	if f.Profession != "" && f.Profession != e.Recipe.Profession {
		return false
	}
	return e.Profit.GreaterThanOrEqual(f.MinProfit)
}

// Query describes one projection.
type Query struct {
	Filter     Filter
	Sort       SortKey
	Descending bool
	// Page 1-based page index.
	Page     int
	PageSize int
}

// Page one page of results with pagination metadata.
type Page struct {
	Items      []domain.EvaluatedRecipe
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Apply returns the recipes passing the filter. The input is not modified.
func Apply(recipes []domain.EvaluatedRecipe, f Filter) []domain.EvaluatedRecipe {
	out := make([]domain.EvaluatedRecipe, 0, len(recipes))
	for _, e := range recipes {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Sort orders recipes in place by the key. Strings compare case-insensitively.
func Sort(recipes []domain.EvaluatedRecipe, key SortKey, descending bool) error {
	if field, ok := numericFields[key]; ok {
		sort.SliceStable(recipes, func(i, j int) bool {
			if descending {
				return field(recipes[i]).GreaterThan(field(recipes[j]))
			}
			return field(recipes[i]).LessThan(field(recipes[j]))
		})
		return nil
	}

	if field, ok := stringFields[key]; ok {
		sort.SliceStable(recipes, func(i, j int) bool {
			a, b := strings.ToLower(field(recipes[i])), strings.ToLower(field(recipes[j]))
			if descending {
				return a > b
			}
			return a < b
		})
		return nil
	}

	return errors.Errorf("unknown sort key %q", key)
}

// TotalPages returns the number of pages needed for count items.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (count + pageSize - 1) / pageSize
}

// Project filters, sorts and pages the recipes. When the requested page is out of
// range the current page is kept, clamped into the available pages.
func Project(recipes []domain.EvaluatedRecipe, q Query, current int) (Page, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Sort == "" {
		q.Sort = SortByProfit
	}

	filtered := Apply(recipes, q.Filter)
	if err := Sort(filtered, q.Sort, q.Descending); err != nil {
		return Page{}, err
	}

	total := TotalPages(len(filtered), q.PageSize)
	page := current
	if q.Page >= 1 && q.Page <= total {
		page = q.Page
	}
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   q.PageSize,
		TotalItems: len(filtered),
		TotalPages: total,
	}, nil
}

// View remembers the current page between projections.
type View struct {
	page int
}

// NewView returns a view positioned on the first page.
func NewView() *View {
	return &View{page: 1}
}

// Project projects the recipes and remembers the resulting page.
func (v *View) Project(recipes []domain.EvaluatedRecipe, q Query) (Page, error) {
	p, err := Project(recipes, q, v.page)
	if err != nil {
		return Page{}, err
	}
	v.page = p.Page
	return p, nil
}

// CurrentPage returns the page shown last.
func (v *View) CurrentPage() int {
	return v.page
}
