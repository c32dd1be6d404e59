package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/config"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	cfg := s.cfg

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	count, err := st.TransactionCount()
	if err != nil {
		return err
	}
	goals, err := st.GetGoals()
	if err != nil {
		return err
	}

	dataset := s.dataset
	dataDir := s.dataDir
	granularity := string(s.granularity)
	themeName := cfg.Appearance.Theme
	budget := goalInput(goals.MonthlyBudget.String())
	savings := goalInput(goals.SavingsGoal.String())

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	granOpts := make([]huh.Option[string], 0, len(model.Granularities))
	for _, g := range model.Granularities {
		granOpts = append(granOpts, huh.NewOption(titleCase(string(g)), string(g)))
	}
	validateGoal := func(v string) error {
		_, err := parseGoal(v)
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetbuddy").
				Description(fmt.Sprintf("Dataset %q holds %d transactions.", dataset, count)),
			huh.NewInput().
				Title("Dataset").
				Description("Transactions and goals are kept per dataset.").
				Value(&dataset).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return errors.New("dataset cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Statements directory").
				Description("CSV exports imported on every run. Leave empty to skip.").
				Value(&dataDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default period").
				Options(granOpts...).
				Value(&granularity),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Description("Leave empty for none.").
				Placeholder("2000").
				Value(&budget).
				Validate(validateGoal),
			huh.NewInput().
				Title("Savings goal").
				Description("Leave empty for none.").
				Placeholder("10000").
				Value(&savings).
				Validate(validateGoal),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.General.Dataset = strings.TrimSpace(dataset)
	cfg.General.DataDir = strings.TrimSpace(dataDir)
	cfg.General.Granularity = granularity
	cfg.Appearance.Theme = themeName
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Goals belong to the dataset chosen in the form.
	if cfg.General.Dataset != st.Dataset() {
		_ = st.Close()
		s.dataset = cfg.General.Dataset
		if st, err = s.openStore(); err != nil {
			return err
		}
	}
	g := model.Goals{}
	g.MonthlyBudget, _ = parseGoal(budget)
	g.SavingsGoal, _ = parseGoal(savings)
	if err := st.SaveGoals(g); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `budgetbuddy setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func goalInput(s string) string {
	if s == "0" {
		return ""
	}
	return s
}
