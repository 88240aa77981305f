package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/craftcost/internal/services/resultset"
)

const (
	defaultSort         = "profit"
	defaultLogLevel     = "info"
	defaultFetchRetries = 3
)

// Config settings of one run.
type Config struct {
	QuotesSource  string
	RecipesSource string
	// OverridesDir journal directory; empty disables override persistence.
	OverridesDir string
	PageSize     int
	Sort         resultset.SortKey
	Descending   bool
	Profession   string
	MinProfit    decimal.Decimal
	// MaxDepth opt-in bound on nested recipe levels; 0 bounds by catalog size.
	MaxDepth     int
	LogLevel     string
	FetchRetries int
}

// ConfigTmp raw yaml representation of Config.
type ConfigTmp struct {
	Quotes       string `yaml:"quotes"`
	Recipes      string `yaml:"recipes"`
	OverridesDir string `yaml:"overrides_dir,omitempty"`
	PageSize     string `yaml:"page_size,omitempty"`
	Sort         string `yaml:"sort,omitempty"`
	Descending   *bool  `yaml:"descending,omitempty"`
	Profession   string `yaml:"profession,omitempty"`
	MinProfit    string `yaml:"min_profit,omitempty"`
	MaxDepth     string `yaml:"max_depth,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
	FetchRetries string `yaml:"fetch_retries,omitempty"`
}

// Actions what the command line asked for besides configuration.
type Actions struct {
	Setup        bool
	SetupPath    string
	SetOverrides []string
	Clear        []string
	Page         int
	RecipeID     string
	Summary      bool
}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Get parses the process arguments.
func Get() (Config, Actions, error) {
	return Parse(os.Args[1:])
}

// Parse reads configuration from a yaml file given with --config, otherwise from flags.
func Parse(args []string) (Config, Actions, error) {
	fs := flag.NewFlagSet("craftcost", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to yaml config")
	quotes := fs.String("quotes", "", "market quotes file or URL")
	recipes := fs.String("recipes", "", "recipes file or URL")
	overridesDir := fs.String("overrides-dir", "", "override journal directory, empty disables persistence")
	pageSize := fs.Int("page-size", resultset.DefaultPageSize, "recipes per page")
	sortKey := fs.String("sort", defaultSort, "sort key: name, profession, skill, cost, value, profit, margin, roi, savings")
	asc := fs.Bool("asc", false, "sort ascending")
	profession := fs.String("profession", "", "show only this profession")
	minProfit := fs.String("min-profit", "0", "minimum profit")
	maxDepth := fs.Int("max-depth", 0, "maximum nested recipe levels, 0 bounds by catalog size")
	logLevel := fs.String("log-level", defaultLogLevel, "log level: info or debug")
	retries := fs.Int("fetch-retries", defaultFetchRetries, "retries for remote feeds")

	var actions Actions
	var set, cleared listFlag
	fs.BoolVar(&actions.Setup, "setup", false, "run the configuration wizard")
	fs.StringVar(&actions.SetupPath, "setup-out", "config.yaml", "file written by the configuration wizard")
	fs.Var(&set, "override", "set an override, ITEM=COST (repeatable)")
	fs.Var(&cleared, "clear", "clear the override of ITEM (repeatable)")
	fs.IntVar(&actions.Page, "page", 1, "page to show")
	fs.StringVar(&actions.RecipeID, "recipe", "", "show the cost breakdown of one recipe")
	fs.BoolVar(&actions.Summary, "summary", false, "show profit per profession")

	if err := fs.Parse(args); err != nil {
		return Config{}, Actions{}, err
	}
	actions.SetOverrides = set
	actions.Clear = cleared

	if actions.Setup {
		return Config{}, actions, nil
	}

	if *configPath != "" {
		c, err := getYaml(*configPath)
		if err != nil {
			return Config{}, Actions{}, err
		}
		return c, actions, nil
	}

	c, err := build(ConfigTmp{
		Quotes:       *quotes,
		Recipes:      *recipes,
		OverridesDir: *overridesDir,
		PageSize:     strconv.Itoa(*pageSize),
		Sort:         *sortKey,
		Descending:   boolPtr(!*asc),
		Profession:   *profession,
		MinProfit:    *minProfit,
		MaxDepth:     strconv.Itoa(*maxDepth),
		LogLevel:     *logLevel,
		FetchRetries: strconv.Itoa(*retries),
	})
	if err != nil {
		return Config{}, Actions{}, err
	}
	return c, actions, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var c ConfigTmp
	if err := yaml.Unmarshal(f, &c); err != nil {
		return Config{}, errors.Wrapf(err, "parse yaml config %s", path)
	}

	return build(c)
}

func build(c ConfigTmp) (Config, error) {
	if c.Quotes == "" {
		return Config{}, fmt.Errorf("'quotes' source is required")
	}
	if c.Recipes == "" {
		return Config{}, fmt.Errorf("'recipes' source is required")
	}

	newConfig := Config{
		QuotesSource:  c.Quotes,
		RecipesSource: c.Recipes,
		OverridesDir:  c.OverridesDir,
		Profession:    c.Profession,
		Descending:    true,
	}

	// Parse PageSize
	if c.PageSize == "" {
		newConfig.PageSize = resultset.DefaultPageSize
	} else {
		pageSize, err := strconv.Atoi(c.PageSize)
		if err != nil || pageSize < 1 {
			return Config{}, fmt.Errorf("incorrect 'page_size' param in yaml config (must be a positive integer): %q", c.PageSize)
		}
		newConfig.PageSize = pageSize
	}

	sortKey, err := resultset.ParseSortKey(c.Sort)
	if err != nil {
		return Config{}, errors.Wrap(err, "incorrect 'sort' param")
	}
	newConfig.Sort = sortKey

	if c.Descending != nil {
		newConfig.Descending = *c.Descending
	}

	// Parse MinProfit
	if c.MinProfit == "" {
		newConfig.MinProfit = decimal.Zero
	} else {
		minProfit, err := decimal.NewFromString(c.MinProfit)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'min_profit' param in yaml config (must be a decimal), error: %w", err)
		}
		newConfig.MinProfit = minProfit
	}

	// Parse MaxDepth
	if c.MaxDepth != "" {
		maxDepth, err := strconv.Atoi(c.MaxDepth)
		if err != nil || maxDepth < 0 {
			return Config{}, fmt.Errorf("incorrect 'max_depth' param in yaml config (must be a non-negative integer): %q", c.MaxDepth)
		}
		newConfig.MaxDepth = maxDepth
	}

	switch strings.ToLower(c.LogLevel) {
	case "":
		newConfig.LogLevel = defaultLogLevel
	case "info", "debug":
		newConfig.LogLevel = strings.ToLower(c.LogLevel)
	default:
		return Config{}, fmt.Errorf("incorrect 'log_level' param: %q (info or debug)", c.LogLevel)
	}

	// Parse FetchRetries
	if c.FetchRetries == "" {
		newConfig.FetchRetries = defaultFetchRetries
	} else {
		retries, err := strconv.Atoi(c.FetchRetries)
		if err != nil || retries < 0 {
			return Config{}, fmt.Errorf("incorrect 'fetch_retries' param in yaml config (must be a non-negative integer): %q", c.FetchRetries)
		}
		newConfig.FetchRetries = retries
	}

	return newConfig, nil
}

// Write stores the raw config as yaml.
func Write(path string, c ConfigTmp) error {
	payload, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, payload, 0o644)
}

func boolPtr(b bool) *bool {
	return &b
}
