package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/calendar"
	"github.com/theirongolddev/budgetbuddy/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagCalendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Month grid of scheduled and recurring charges",
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&flagCalendarMonth, "month", "", "Month to show as YYYY-MM (default: current month)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	month, err := parseMonth(flagCalendarMonth, s.now)
	if err != nil {
		return err
	}
	d, err := loadData(s)
	if err != nil {
		return err
	}

	cells, idx := calendar.Month(d.txs, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(month.Format("January 2006"))))
	fmt.Println()
	fmt.Print(cli.RenderCalendar(cells))
	fmt.Println()

	events := idx.Between(month, month.AddDate(0, 1, -1))
	if len(events) == 0 {
		fmt.Println("  Nothing scheduled this month.")
		return nil
	}

	var total decimal.Decimal
	rows := make([][]string, 0, len(events)+2)
	for _, ev := range events {
		rows = append(rows, []string{ev.Date, ev.Title, string(ev.Source), cli.FormatMoney(ev.Amount)})
		total = total.Add(ev.Amount)
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", "", cli.FormatMoney(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Charge", "Source", "Amount"},
		Rows:    rows,
	}))
	return nil
}

// parseMonth parses YYYY-MM, defaulting to the month containing now.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("--month %q: want YYYY-MM", s)
	}
	return t, nil
}
