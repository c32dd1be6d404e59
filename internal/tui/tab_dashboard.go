package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const dashboardCategoryLimit = 8

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	res := a.result
	var b strings.Builder

	// Row 1: metric cards
	spentDelta := "vs " + cli.FormatMoney(a.prevExpenses) + " prev"
	if !a.prevExpenses.IsZero() {
		spentDelta = cli.FormatDelta(res.Expenses, a.prevExpenses) + " vs prev"
	}

	netColor := t.Green
	if res.Net.IsNegative() {
		netColor = t.Red
	}

	budgetValue, budgetDelta := "not set", "press g, then e"
	budgetColor := t.TextMuted
	if res.BudgetUsage.Available {
		budgetValue = cli.FormatPercent(res.BudgetUsage.Percent)
		budgetDelta = cli.FormatMoney(res.SpentThisMonth) + " of " + cli.FormatMoney(a.goals.MonthlyBudget)
		budgetColor = components.ColorForPct(float64(res.BudgetUsage.Percent) / 100)
	}

	metrics := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(res.Income), Color: t.Green},
		{Label: "Spent", Value: cli.FormatMoney(res.Expenses), Delta: spentDelta},
		{Label: "Net", Value: cli.FormatMoney(res.Net), Color: netColor},
		{Label: "Daily Avg", Value: cli.FormatMoney(res.Summary.DailyAverage),
			Delta: fmt.Sprintf("over %d days", res.Summary.DaysElapsed)},
		{Label: "Budget (month)", Value: budgetValue, Delta: budgetDelta, Color: budgetColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:3], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[3:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Row 2: spending per bucket
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Spending by %s", bucketNoun(a.granularity)),
		components.BucketChart(pipeline.FillBuckets(res.Buckets, res.Granularity, res.Scope, a.goals),
			t.Blue, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 3: categories + highlights
	if a.isCompactLayout() {
		b.WriteString(a.renderCategoryCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderHighlightsCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.renderCategoryCard(halves[0]),
			a.renderHighlightsCard(halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderCategoryCard(w int) string {
	t := theme.Active
	cats := a.result.Categories
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(cats) == 0 {
		return components.ContentCard("Categories", dimStyle.Render("No spending in this period"), w)
	}

	innerW := components.CardInnerWidth(w)
	labelW := 14
	valueW := 12
	barW := max(innerW-labelW-valueW-2, 5)

	limit := min(len(cats), dashboardCategoryLimit)
	maxVal := cats[0].Amount.InexactFloat64()

	var body strings.Builder
	for i, c := range cats[:limit] {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(components.HBar(c.Category, labelW, c.Amount.InexactFloat64(), maxVal, barW,
			cli.FormatMoney(c.Amount), t.Accent))
	}
	if rest := len(cats) - limit; rest > 0 {
		body.WriteString("\n")
		body.WriteString(dimStyle.Render(fmt.Sprintf("+%d more", rest)))
	}

	return components.ContentCard("Categories", body.String(), w)
}

func (a App) renderHighlightsCard(w int) string {
	t := theme.Active
	sum := a.result.Summary
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var body strings.Builder
	row := func(label, value string) {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)))
		body.WriteString(valueStyle.Render(value))
		body.WriteString("\n")
	}

	if sum.TopCategory != nil {
		row("Top category", fmt.Sprintf("%s (%s)", sum.TopCategory.Category, cli.FormatMoney(sum.TopCategory.Amount)))
	} else {
		row("Top category", "-")
	}
	if sum.LargestExpense != nil {
		row("Largest expense", fmt.Sprintf("%s %s on %s",
			truncStr(sum.LargestExpense.Merchant, 18),
			cli.FormatMoney(sum.LargestExpense.Amount),
			sum.LargestExpense.Date.Format("Jan 2")))
	} else {
		row("Largest expense", "-")
	}
	row("Transactions", cli.FormatNumber(int64(len(a.txs))))

	body.WriteString("\n")
	body.WriteString(labelStyle.Render(fmt.Sprintf("Upcoming (%s)", cli.FormatMoney(sum.UpcomingTotal))))
	if len(sum.Upcoming) == 0 {
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("Nothing due in the next week"))
	}
	for _, o := range sum.Upcoming[:min(len(sum.Upcoming), 5)] {
		body.WriteString("\n")
		amt := cli.FormatMoney(o.Amount)
		name := truncStr(o.Merchant, max(innerW-lipgloss.Width(amt)-9, 4))
		body.WriteString(dimStyle.Render(o.Date.Format("Jan 02") + "  "))
		body.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", max(innerW-lipgloss.Width(amt)-9, 4), name)))
		body.WriteString(amountStyle.Render(" " + amt))
	}

	return components.ContentCard("Highlights", body.String(), w)
}

func bucketNoun(g model.Granularity) string {
	switch g {
	case model.Weekly:
		return "day"
	case model.Yearly:
		return "month"
	default:
		return "week"
	}
}
