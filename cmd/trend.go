package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTrendPeriods int

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Income and spending per bucket of the current period",
	Long: "Weekly periods are split into days, monthly periods into weeks and\n" +
		"yearly periods into months. Use --periods to step back through earlier periods.",
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&flagTrendPeriods, "periods", 1, "Number of periods to show, newest last")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
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

	periods := max(flagTrendPeriods, 1)
	current := pipeline.CurrentScope(s.granularity, s.now)
	for i := periods - 1; i >= 0; i-- {
		scope := pipeline.ShiftScope(current, s.granularity, -i)
		res := pipeline.Analyze(s.input(d, &scope))
		printTrend(res, d.goals)
	}
	return nil
}

func printTrend(res pipeline.Result, goals model.Goals) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(titleCase(string(res.Granularity)) + "  " + pipeline.ScopeTitle(res.Scope, res.Granularity))))
	fmt.Println()

	withBudget := goals.HasBudget()
	headers := []string{"Period", "Dates", "Income", "Spent", "Net"}
	if withBudget {
		headers = append(headers, "Budget")
	}

	// Periods without activity show as zero rows.
	buckets := pipeline.FillBuckets(res.Buckets, res.Granularity, res.Scope, goals)
	rows := make([][]string, 0, len(buckets)+2)
	spend := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		row := []string{
			b.Label,
			b.DetailLabel,
			cli.FormatMoney(b.Income),
			cli.FormatMoney(b.Expenses),
			cli.FormatMoney(b.Net),
		}
		if withBudget {
			row = append(row, cli.FormatMoney(b.BudgetTarget))
		}
		rows = append(rows, row)
		f, _ := b.Expenses.Float64()
		spend = append(spend, f)
	}

	total := []string{"Total", "", cli.FormatMoney(res.Income), cli.FormatMoney(res.Expenses), cli.FormatMoney(res.Net)}
	if withBudget {
		total = append(total, "")
	}
	rows = append(rows, []string{"---"}, total)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: headers,
		Rows:    rows,
	}))
	fmt.Printf("  Spending  %s\n", cli.RenderSparkline(spend))
}
