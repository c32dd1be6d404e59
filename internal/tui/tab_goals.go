package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const goalsCashflowMonths = 6

// goalValues holds the goals form answers. The form writes through a
// pointer, so it must outlive the App copies Bubble Tea makes.
type goalValues struct {
	budget  string
	savings string
}

// goalsState tracks the goals tab and its edit form.
type goalsState struct {
	form    *huh.Form
	vals    *goalValues
	saved   bool
	saveErr error
}

func newGoalsForm(gv *goalValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Description("Leave empty to clear.").
				Placeholder("2000").
				Value(&gv.budget).
				Validate(validateMoney),
			huh.NewInput().
				Title("Savings goal").
				Description("Leave empty to clear.").
				Placeholder("10000").
				Value(&gv.savings).
				Validate(validateMoney),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (a App) startGoalsEdit() (tea.Model, tea.Cmd) {
	a.goalsState.vals = &goalValues{
		budget:  moneyInput(a.goals.MonthlyBudget),
		savings: moneyInput(a.goals.SavingsGoal),
	}
	a.goalsState.saved = false
	a.goalsState.saveErr = nil
	a.goalsState.form = newGoalsForm(a.goalsState.vals)
	if a.width > 0 {
		a.goalsState.form = a.goalsState.form.WithWidth(min(a.contentWidth()-4, 60))
	}
	return a, a.goalsState.form.Init()
}

func (a App) updateGoalsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.goalsState.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.goalsState.form = f
	}

	switch a.goalsState.form.State {
	case huh.StateCompleted:
		goals := model.Goals{
			MonthlyBudget: parseMoney(a.goalsState.vals.budget),
			SavingsGoal:   parseMoney(a.goalsState.vals.savings),
		}
		a.goalsState.form = nil
		return a, saveGoalsCmd(a.opts, goals)
	case huh.StateAborted:
		a.goalsState.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) renderGoalsTab(cw int) string {
	if a.goalsState.form != nil {
		return components.ContentCard("Edit goals", a.goalsState.form.View(), cw)
	}

	var b strings.Builder
	if a.isCompactLayout() {
		b.WriteString(a.renderBudgetCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderForecastCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.renderBudgetCard(halves[0]),
			a.renderForecastCard(halves[1]),
		}))
	}
	b.WriteString("\n")
	b.WriteString(a.renderCashflowCard(cw))
	return b.String()
}

func (a App) renderBudgetCard(w int) string {
	t := theme.Active
	res := a.result
	stats := res.Budget
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var body strings.Builder
	row := func(label, value string) {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
		body.WriteString(valueStyle.Render(value))
		body.WriteString("\n")
	}

	if !res.BudgetUsage.Available {
		body.WriteString(dimStyle.Render("No monthly budget set."))
		body.WriteString("\n")
		row("Spent this month", cli.FormatMoney(res.SpentThisMonth))
	} else {
		left := a.goals.MonthlyBudget.Sub(res.SpentThisMonth)
		note := cli.FormatMoney(left) + " left"
		if left.IsNegative() {
			note = cli.FormatMoney(left.Neg()) + " over"
		}
		body.WriteString(components.BudgetBar("Used", float64(res.BudgetUsage.Percent)/100, note, 5, max(innerW-30, 10)))
		body.WriteString("\n\n")
		row("Budget", cli.FormatMoney(a.goals.MonthlyBudget))
		row("Spent", cli.FormatMoney(stats.CurrentSpend))
		row("Daily burn", cli.FormatMoney(stats.DailyBurnRate)+"/day")
		row("Projected", cli.FormatMoney(stats.ProjectedMonthly))
		row("Days remaining", fmt.Sprintf("%d of %d", stats.DaysRemaining, stats.DaysElapsed+stats.DaysRemaining))
		if stats.ProjectedOverrun.IsPositive() {
			body.WriteString(warnStyle.Render("On pace to exceed by " + cli.FormatMoney(stats.ProjectedOverrun)))
		} else {
			body.WriteString(okStyle.Render("On pace to stay within budget"))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(a.goalsFooter())
	return components.ContentCard("Monthly Budget", body.String(), w)
}

func (a App) goalsFooter() string {
	t := theme.Active
	switch {
	case a.goalsState.saveErr != nil:
		return lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("Save failed: " + a.goalsState.saveErr.Error())
	case a.goalsState.saved:
		return lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Render("Saved!")
	default:
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("[e] edit goals")
	}
}

func (a App) renderForecastCard(w int) string {
	t := theme.Active
	fc := a.result.Forecast

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	bigStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var body strings.Builder
	row := func(label, value string) {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
		body.WriteString(valueStyle.Render(value))
		body.WriteString("\n")
	}

	row("Savings goal", moneyOrUnset(a.goals.SavingsGoal.IsPositive(), cli.FormatMoney(a.goals.SavingsGoal)))

	switch fc.Status {
	case model.ForecastOK:
		row("Avg income", cli.FormatMoney(fc.AverageMonthlyIncome))
		row("Saved per month", cli.FormatMoney(fc.ProjectedMonthlySavings))
		body.WriteString("\n")
		body.WriteString(labelStyle.Render("Goal reached in "))
		body.WriteString(bigStyle.Render(cli.FormatMonths(fc.Months)))
		body.WriteString(dimStyle.Render(fmt.Sprintf("  (%d months)", fc.Months)))
	case model.ForecastNotReachable:
		row("Avg income", cli.FormatMoney(fc.AverageMonthlyIncome))
		body.WriteString("\n")
		body.WriteString(warnStyle.Render("Income does not exceed the budget, so the goal is not reachable."))
	case model.ForecastUnavailable:
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("No income recorded yet to forecast from."))
	default:
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("Set a savings goal and a monthly budget to see a forecast."))
	}

	return components.ContentCard("Savings Forecast", body.String(), w)
}

func (a App) renderCashflowCard(cw int) string {
	t := theme.Active
	history := a.result.Cashflow
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(history) == 0 {
		return components.ContentCard("Monthly Cashflow", dimStyle.Render("No completed months yet"), cw)
	}
	if len(history) > goalsCashflowMonths {
		history = history[len(history)-goalsCashflowMonths:]
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	posStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %14s %14s %14s", "Month", "Income", "Expenses", "Net")))
	for _, m := range history {
		body.WriteString("\n")
		body.WriteString(rowStyle.Render(fmt.Sprintf("%-10s %14s %14s ", m.Month, cli.FormatMoney(m.Income), cli.FormatMoney(m.Expenses))))
		net := fmt.Sprintf("%14s", cli.FormatMoney(m.Net))
		if m.Net.IsNegative() {
			body.WriteString(negStyle.Render(net))
		} else {
			body.WriteString(posStyle.Render(net))
		}
	}

	return components.ContentCard("Monthly Cashflow", body.String(), cw)
}

func moneyOrUnset(set bool, s string) string {
	if !set {
		return "(not set)"
	}
	return s
}
