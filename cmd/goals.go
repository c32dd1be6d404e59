package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagGoalBudget  string
	flagGoalSavings string
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show the monthly budget and savings goal",
	RunE:  runGoals,
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the monthly budget and/or savings goal (0 clears)",
	Example: "  budgetbuddy goals set --budget 2000\n" +
		"  budgetbuddy goals set --budget 2000 --savings 10000",
	RunE: runGoalsSet,
}

func init() {
	goalsSetCmd.Flags().StringVar(&flagGoalBudget, "budget", "", "Monthly spending limit")
	goalsSetCmd.Flags().StringVar(&flagGoalSavings, "savings", "", "Total savings target")
	goalsCmd.AddCommand(goalsSetCmd)
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := st.GetGoals()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Goals for " + s.dataset,
		Headers: []string{"Goal", "Amount"},
		Rows: [][]string{
			{"Monthly budget", goalText(g.MonthlyBudget)},
			{"Savings goal", goalText(g.SavingsGoal)},
		},
	}))
	fmt.Println("\n  Change with: budgetbuddy goals set --budget N --savings N")
	return nil
}

func runGoalsSet(cmd *cobra.Command, _ []string) error {
	budgetSet := cmd.Flags().Changed("budget")
	savingsSet := cmd.Flags().Changed("savings")
	if !budgetSet && !savingsSet {
		return errors.New("nothing to set: pass --budget and/or --savings")
	}

	s, err := resolveSettings()
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := st.GetGoals()
	if err != nil {
		return err
	}
	if budgetSet {
		if g.MonthlyBudget, err = parseGoal(flagGoalBudget); err != nil {
			return fmt.Errorf("--budget: %w", err)
		}
	}
	if savingsSet {
		if g.SavingsGoal, err = parseGoal(flagGoalSavings); err != nil {
			return fmt.Errorf("--savings: %w", err)
		}
	}

	if err := st.SaveGoals(g); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}
	fmt.Printf("  Monthly budget: %s\n  Savings goal:   %s\n", goalText(g.MonthlyBudget), goalText(g.SavingsGoal))
	return nil
}

// parseGoal reads a non-negative amount; empty and zero clear the goal.
func parseGoal(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	if clean == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q cannot be negative", s)
	}
	return d.Round(2), nil
}

func goalText(d decimal.Decimal) string {
	if !d.IsPositive() {
		return "not set"
	}
	return cli.FormatMoney(d)
}
