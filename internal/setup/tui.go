package setup

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/craftcost/config"
	"github.com/vadiminshakov/craftcost/internal/services/resultset"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

const title = "CRAFTCOST CONFIG WIZARD"

// RunTUI launches the terminal configuration wizard and writes the result to path.
func RunTUI(path string) error {
	var (
		quotes       string
		recipes      string
		overridesDir = "./wal/overrides"
		pageSizeStr  = strconv.Itoa(resultset.DefaultPageSize)
		sortKey      = string(resultset.SortByProfit)
		descending   = true
		profession   string
		minProfitStr = "0"
		confirm      bool
	)

	screen := func(step string) {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render(title))
		fmt.Println(stepStyle.Render(step))
	}

	// step 1: feeds
	screen("STEP 1: DATA FEEDS")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Files or http(s) URLs with yaml or json documents.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Market quotes").
				Value(&quotes).
				Validate(required("quotes source")),
			huh.NewInput().
				Title("Recipes").
				Value(&recipes).
				Validate(required("recipes source")),
			huh.NewInput().
				Title("Override journal directory").
				Description("Leave empty to keep overrides in memory only").
				Value(&overridesDir),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 2: view
	screen("STEP 2: VIEW")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sort by").
				Options(sortOptions()...).
				Value(&sortKey),
			huh.NewConfirm().
				Title("Highest first?").
				Value(&descending),
			huh.NewInput().
				Title("Recipes per page").
				Value(&pageSizeStr).
				Validate(validatePageSize),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 3: filter
	screen("STEP 3: FILTER")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profession").
				Description("Leave empty for all professions").
				Value(&profession),
			huh.NewInput().
				Title("Minimum profit").
				Description("Recipes earning less are hidden (0 hides losing recipes)").
				Value(&minProfitStr).
				Validate(validateDecimal),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	screen("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Quotes: %s\nRecipes: %s\nOverrides: %s\nSort: %s (descending %t)\nPage size: %s\nProfession: %s\nMin profit: %s\n",
		quotes, recipes, overridesDir, sortKey, descending, pageSizeStr, profession, minProfitStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cfgTmp := config.ConfigTmp{
		Quotes:       quotes,
		Recipes:      recipes,
		OverridesDir: overridesDir,
		PageSize:     pageSizeStr,
		Sort:         sortKey,
		Descending:   &descending,
		Profession:   profession,
		MinProfit:    minProfitStr,
	}

	if err := config.Write(path, cfgTmp); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nRun: craftcost --config %s", path, path)))
	return nil
}

func sortOptions() []huh.Option[string] {
	keys := []resultset.SortKey{
		resultset.SortByProfit,
		resultset.SortByROI,
		resultset.SortByMargin,
		resultset.SortBySavings,
		resultset.SortByCost,
		resultset.SortByValue,
		resultset.SortByName,
		resultset.SortByProfession,
		resultset.SortBySkill,
	}
	opts := make([]huh.Option[string], 0, len(keys))
	for _, k := range keys {
		opts = append(opts, huh.NewOption(string(k), string(k)))
	}
	return opts
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func validateDecimal(s string) error {
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("must be a valid number")
	}
	return nil
}
