// Package render prints evaluation results as terminal tables.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/craftcost/internal/domain"
	"github.com/vadiminshakov/craftcost/internal/services/resultset"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	loss      = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF6B6B"}
	subtle    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	headerStyle = lipgloss.NewStyle().Foreground(highlight).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(subtle)
	titleStyle  = lipgloss.NewStyle().Foreground(highlight).Bold(true).MarginBottom(1)
)

// Namer resolves item ids to display names.
type Namer interface {
	DisplayName(itemID string) string
}

const provisionalMark = "*"

// Page writes one page of evaluated recipes.
func Page(w io.Writer, p resultset.Page) error {
	rows := make([][]string, 0, len(p.Items))
	for _, e := range p.Items {
		name := e.Recipe.Name
		if e.Provisional() {
			name += provisionalMark
		}
		rows = append(rows, []string{
			e.Recipe.ID,
			name,
			e.Recipe.Profession,
			fmt.Sprint(e.Recipe.SkillLevel),
			money(e.TotalMaterialsCost),
			money(e.TotalResultValue),
			money(e.Profit),
			percent(e.MarginPercent),
			percent(e.ROIPercent),
			money(e.TotalSavings),
		})
	}

	const profitCol = 6
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("ID", "RECIPE", "PROFESSION", "SKILL", "COST", "VALUE", "PROFIT", "MARGIN", "ROI", "SAVINGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == profitCol && row >= 0 && row < len(p.Items) {
				return profitStyle(p.Items[row].Profit)
			}
			return cellStyle
		})

	footer := fmt.Sprintf("page %d/%d, %d recipes", p.Page, p.TotalPages, p.TotalItems)
	if hasProvisional(p.Items) {
		footer += fmt.Sprintf(", %s some materials unpriced", provisionalMark)
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, t.Render(), footerStyle.Render(footer)))
	return err
}

// Recipe writes the material breakdown of one evaluated recipe.
func Recipe(w io.Writer, e domain.EvaluatedRecipe, names Namer) error {
	rows := make([][]string, 0, len(e.Materials))
	for _, m := range e.Materials {
		crafted := "-"
		if m.CraftedUnitCost.Valid {
			crafted = money(m.CraftedUnitCost.Decimal)
		}
		rows = append(rows, []string{
			names.DisplayName(m.ItemID),
			fmt.Sprint(m.Quantity),
			money(m.MarketUnitCost),
			crafted,
			m.Source().String(),
			money(m.TotalCost),
			money(m.SavingsVsMarket),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("MATERIAL", "QTY", "MARKET", "CRAFTED", "SOURCE", "TOTAL", "SAVINGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	title := fmt.Sprintf("%s (%s, skill %d) makes %d x %s",
		e.Recipe.Name, e.Recipe.Profession, e.Recipe.SkillLevel, e.Recipe.ResultQuantity, names.DisplayName(e.Recipe.ResultItemID))

	summary := fmt.Sprintf("cost %s  value %s  profit %s  margin %s  roi %s  savings %s",
		money(e.TotalMaterialsCost), money(e.TotalResultValue), profitStyle(e.Profit).Render(money(e.Profit)),
		percent(e.MarginPercent), percent(e.ROIPercent), money(e.TotalSavings))
	if e.Provisional() {
		summary += footerStyle.Render("  (provisional: unpriced materials)")
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.Render(), summary))
	return err
}

// Professions writes the profit aggregate per profession.
func Professions(w io.Writer, profits []domain.ProfessionProfit) error {
	rows := make([][]string, 0, len(profits))
	for _, p := range profits {
		rows = append(rows, []string{p.Profession, fmt.Sprint(p.Recipes), money(p.Profit)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("PROFESSION", "PROFITABLE RECIPES", "TOTAL PROFIT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Overrides writes the active override table sorted by item.
func Overrides(w io.Writer, overrides map[string]decimal.Decimal, names Namer) error {
	if len(overrides) == 0 {
		_, err := fmt.Fprintln(w, footerStyle.Render("no overrides"))
		return err
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, names.DisplayName(id), money(overrides[id])})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("ITEM", "NAME", "OVERRIDE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func profitStyle(profit decimal.Decimal) lipgloss.Style {
	switch profit.Sign() {
	case 1:
		return cellStyle.Foreground(special)
	case -1:
		return cellStyle.Foreground(loss)
	default:
		return cellStyle
	}
}

func hasProvisional(items []domain.EvaluatedRecipe) bool {
	for _, e := range items {
		if e.Provisional() {
			return true
		}
	}
	return false
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
