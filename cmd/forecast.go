package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Budget burn rate and months until the savings goal",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	d, err := loadData(s)
	if err != nil {
		return err
	}

	res := s.analyze(d)
	bs := res.Budget
	fc := res.Forecast

	fmt.Println()
	fmt.Println(cli.RenderTitle("FORECAST  " + s.now.Format("January 2006")))
	fmt.Println()

	rows := [][]string{
		{"Spent this month", cli.FormatMoney(res.SpentThisMonth)},
		{"Income this month", cli.FormatMoney(res.IncomeThisMonth)},
		{"Daily burn rate", cli.FormatMoney(bs.DailyBurnRate) + "/day"},
		{"Projected month", cli.FormatMoney(bs.ProjectedMonthly)},
		{"Days remaining", fmt.Sprintf("%d of %d", bs.DaysRemaining, bs.DaysElapsed+bs.DaysRemaining)},
		{"---"},
	}
	if res.BudgetUsage.Available {
		rows = append(rows,
			[]string{"Monthly budget", cli.FormatMoney(d.goals.MonthlyBudget)},
			[]string{"Used", cli.RenderBudgetBar(res.BudgetUsage.Percent, 20)},
		)
		if bs.ProjectedOverrun.IsPositive() {
			rows = append(rows, []string{"Projected overrun", cli.FormatMoney(bs.ProjectedOverrun)})
		}
	} else {
		rows = append(rows, []string{"Monthly budget", "not set"})
	}

	rows = append(rows, []string{"---"})
	if d.goals.SavingsGoal.IsPositive() {
		rows = append(rows, []string{"Savings goal", cli.FormatMoney(d.goals.SavingsGoal)})
	} else {
		rows = append(rows, []string{"Savings goal", "not set"})
	}
	rows = append(rows, []string{"Goal reached in", forecastText(fc)})
	if fc.Status == model.ForecastOK || fc.Status == model.ForecastNotReachable {
		rows = append(rows, []string{"Avg monthly income", cli.FormatMoney(fc.AverageMonthlyIncome)})
	}
	if fc.Status == model.ForecastOK {
		rows = append(rows, []string{"Saved per month", cli.FormatMoney(fc.ProjectedMonthlySavings)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(res.Cashflow) > 0 {
		fmt.Println()
		history := res.Cashflow
		if len(history) > 12 {
			history = history[len(history)-12:]
		}
		cf := make([][]string, 0, len(history))
		for _, m := range history {
			cf = append(cf, []string{m.Month, cli.FormatMoney(m.Income), cli.FormatMoney(m.Expenses), cli.FormatMoney(m.Net)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Monthly cashflow",
			Headers: []string{"Month", "Income", "Spent", "Net"},
			Rows:    cf,
		}))
	}
	return nil
}

func forecastText(fc model.ForecastResult) string {
	switch fc.Status {
	case model.ForecastOK:
		return fmt.Sprintf("%s (%d months)", cli.FormatMonths(fc.Months), fc.Months)
	case model.ForecastNotReachable:
		return "not reachable: income does not exceed the budget"
	case model.ForecastUnavailable:
		return "no income recorded yet"
	default:
		return "set a savings goal and a monthly budget"
	}
}
