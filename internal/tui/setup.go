package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/config"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	dataset string
	dataDir string
	theme   string
	budget  string
	savings string
}

func newSetupForm(txCount int, opts Options, goals model.Goals, vals *setupValues) *huh.Form {
	cfg := loadConfigOrDefault()
	vals.dataset = opts.Dataset
	vals.dataDir = opts.DataDir
	vals.theme = cfg.Appearance.Theme
	vals.budget = moneyInput(goals.MonthlyBudget)
	vals.savings = moneyInput(goals.SavingsGoal)

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetbuddy").
				Description(fmt.Sprintf("Found %d transactions in dataset %q.\nA few questions and you're set.", txCount, opts.Dataset)),
			huh.NewInput().
				Title("Dataset").
				Description("Transactions and goals are stored per dataset.").
				Value(&vals.dataset).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("dataset cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Statements directory").
				Description("CSV exports imported on every load. Leave empty to skip.").
				Value(&vals.dataDir),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Description("Spending limit per calendar month. Leave empty for none.").
				Placeholder("2000").
				Value(&vals.budget).
				Validate(validateMoney),
			huh.NewInput().
				Title("Savings goal").
				Description("Total you want to save. Leave empty for none.").
				Placeholder("10000").
				Value(&vals.savings).
				Validate(validateMoney),
		),
	).WithTheme(huh.ThemeCharm())
}

// saveSetup writes the setup answers to the config file and applies them.
// It returns the goals to persist and whether the dataset must be reloaded.
func (a *App) saveSetup() (model.Goals, bool, error) {
	cfg := loadConfigOrDefault()
	v := a.setupVals
	if v == nil {
		return model.Goals{}, false, nil
	}

	dataset := strings.TrimSpace(v.dataset)
	dataDir := strings.TrimSpace(v.dataDir)
	reload := dataset != a.opts.Dataset || dataDir != a.opts.DataDir

	cfg.General.Dataset = dataset
	cfg.General.DataDir = dataDir
	if theme.Valid(v.theme) {
		cfg.Appearance.Theme = v.theme
		theme.SetActive(v.theme)
	}
	if err := config.Save(cfg); err != nil {
		return model.Goals{}, false, fmt.Errorf("saving config: %w", err)
	}

	a.opts.Dataset = dataset
	a.opts.DataDir = dataDir

	goals := model.Goals{
		MonthlyBudget: parseMoney(v.budget),
		SavingsGoal:   parseMoney(v.savings),
	}
	return goals, reload, nil
}

// validateMoney accepts an empty string or a non-negative amount.
func validateMoney(s string) error {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return fmt.Errorf("%q is not an amount", s)
	}
	if d.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// parseMoney parses a validated amount; anything unparseable is zero.
func parseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// moneyInput renders an amount for an input field; zero is blank.
func moneyInput(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
