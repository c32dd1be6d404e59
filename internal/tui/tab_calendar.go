package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const calendarMonthEventLimit = 12

func (a App) renderCalendarTab(cw int) string {
	var gridW, sideW int
	if a.isCompactLayout() {
		gridW, sideW = cw, cw
	} else {
		gridW = min(cw*3/5, 7*12+4)
		sideW = cw - gridW
	}

	title := a.calMonth.Format("January 2006")
	grid := components.MonthGrid(a.calCells, a.calSel, projection.Day(a.now()), components.CardInnerWidth(gridW))
	hint := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Background(theme.Active.Surface).
		Render("[h/l] day  [j/k] week  [ / ] month  [t] today")
	gridCard := components.ContentCard(title, grid+"\n\n"+hint, gridW)

	sideCards := a.renderDayEvents(sideW) + "\n" + a.renderMonthEvents(sideW)

	if a.isCompactLayout() {
		return gridCard + "\n" + sideCards
	}
	return components.CardRow([]string{gridCard, sideCards})
}

func (a App) renderDayEvents(w int) string {
	t := theme.Active
	events := a.calIdx.On(a.calSel)
	title := a.calSel.Format("Monday, Jan 2")

	if len(events) == 0 {
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("Nothing scheduled"), w)
	}

	var total decimal.Decimal
	var body strings.Builder
	for i, ev := range events {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(eventLine(ev, components.CardInnerWidth(w), false))
		total = total.Add(ev.Amount)
	}
	body.WriteString("\n")
	body.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
		Render(fmt.Sprintf("%d due · %s", len(events), cli.FormatMoney(total))))

	return components.ContentCard(title, body.String(), w)
}

func (a App) renderMonthEvents(w int) string {
	t := theme.Active
	last := a.calMonth.AddDate(0, 1, -1)
	events := a.calIdx.Between(a.calMonth, last)
	title := "This month"

	if len(events) == 0 {
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No charges this month"), w)
	}

	var total decimal.Decimal
	for _, ev := range events {
		total = total.Add(ev.Amount)
	}
	title = fmt.Sprintf("This month (%s)", cli.FormatMoney(total))

	var body strings.Builder
	for i, ev := range events[:min(len(events), calendarMonthEventLimit)] {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(eventLine(ev, components.CardInnerWidth(w), true))
	}
	if rest := len(events) - calendarMonthEventLimit; rest > 0 {
		body.WriteString("\n")
		body.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("+%d more", rest)))
	}

	return components.ContentCard(title, body.String(), w)
}

// eventLine renders one calendar event as "date  title  amount".
func eventLine(ev model.CalendarEvent, innerW int, withDate bool) string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	if ev.Amount.IsNegative() {
		amountStyle = amountStyle.Foreground(t.Green)
	}

	prefix := ""
	if withDate {
		if d, ok := projection.ParseDate(ev.Date); ok {
			prefix = d.Format("Jan 02") + "  "
		}
	}
	amt := cli.FormatMoney(ev.Amount)
	nameW := max(innerW-lipgloss.Width(prefix)-lipgloss.Width(amt)-1, 4)

	return dateStyle.Render(prefix) +
		nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(ev.Title, nameW))) +
		amountStyle.Render(" "+amt)
}
