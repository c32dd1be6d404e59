package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/projection"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, spending and budget for the current period",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	d, err := loadData(s)
	if err != nil {
		return err
	}
	if err := requireData(s, d); err != nil {
		return err
	}

	res := s.analyze(d)
	prevScope := pipeline.ShiftScope(res.Scope, s.granularity, -1)
	prev := pipeline.Analyze(s.input(d, &prevScope))

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper("Budget  " + pipeline.ScopeTitle(res.Scope, s.granularity))))
	fmt.Println()

	spent := cli.FormatMoney(res.Expenses)
	if prev.Expenses.IsPositive() {
		spent += fmt.Sprintf("  (%s vs prev)", cli.FormatDelta(res.Expenses, prev.Expenses))
	}

	rows := [][]string{
		{"Income", cli.FormatMoney(res.Income)},
		{"Spent", spent},
		{"Net", cli.FormatMoney(res.Net)},
		{"Daily average", fmt.Sprintf("%s/day over %d days", cli.FormatMoney(res.Summary.DailyAverage), res.Summary.DaysElapsed)},
		{"---"},
	}
	if top := res.Summary.TopCategory; top != nil {
		rows = append(rows, []string{"Top category", fmt.Sprintf("%s (%s)", top.Category, cli.FormatMoney(top.Amount))})
	}
	if big := res.Summary.LargestExpense; big != nil {
		rows = append(rows, []string{"Largest expense", fmt.Sprintf("%s %s on %s",
			big.Merchant, cli.FormatMoney(big.Amount), projection.FormatDate(big.Date))})
	}
	rows = append(rows,
		[]string{"Spent this month", cli.FormatMoney(res.SpentThisMonth)},
	)
	if res.BudgetUsage.Available {
		rows = append(rows, []string{"Budget", fmt.Sprintf("%s of %s",
			cli.RenderBudgetBar(res.BudgetUsage.Percent, 20), cli.FormatMoney(d.goals.MonthlyBudget))})
	} else {
		rows = append(rows, []string{"Budget", "not set (budgetbuddy goals set --budget N)"})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(res.Summary.Upcoming) > 0 {
		fmt.Println()
		upcoming := make([][]string, 0, len(res.Summary.Upcoming))
		for _, o := range res.Summary.Upcoming {
			upcoming = append(upcoming, []string{
				projection.FormatDate(o.Date),
				o.Merchant,
				o.Category,
				cli.FormatMoney(o.Amount),
			})
		}
		upcoming = append(upcoming, []string{"---"}, []string{"Total", "", "", cli.FormatMoney(res.Summary.UpcomingTotal)})
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Upcoming (next %d days)", pipeline.DefaultUpcomingDays),
			Headers: []string{"Date", "Merchant", "Category", "Amount"},
			Rows:    upcoming,
		}))
	}

	if d.imported != nil && d.imported.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d statement files could not be parsed\n", d.imported.FileErrors)
	}
	return nil
}
