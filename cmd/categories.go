package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagCategoriesTop int

var hundred = decimal.NewFromInt(100)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category for the current period",
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().IntVarP(&flagCategoriesTop, "top", "t", 0, "Show only the N largest categories")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
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
	cats := res.Categories

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper("Categories  " + pipeline.ScopeTitle(res.Scope, s.granularity))))
	fmt.Println()

	if len(cats) == 0 {
		fmt.Println("  No spending in this period.")
		return nil
	}
	if flagCategoriesTop > 0 && len(cats) > flagCategoriesTop {
		cats = cats[:flagCategoriesTop]
	}

	labelW := 0
	for _, c := range cats {
		labelW = max(labelW, len(c.Category))
	}
	peak, _ := cats[0].Amount.Float64()

	for _, c := range cats {
		amount, _ := c.Amount.Float64()
		share := 0
		if res.Expenses.IsPositive() {
			share = int(c.Amount.Div(res.Expenses).Mul(hundred).Round(0).IntPart())
		}
		suffix := fmt.Sprintf("%s  %s", cli.FormatMoney(c.Amount), cli.FormatPercent(share))
		fmt.Println(cli.RenderHorizontalBar(c.Category, labelW, amount, peak, 30, suffix))
	}

	fmt.Println()
	fmt.Printf("  Total spent  %s across %d categories\n", cli.FormatMoney(res.Expenses), len(res.Categories))
	return nil
}
