package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// subsState holds the subscriptions tab state.
type subsState struct {
	cursor int
}

func (s *subsState) up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *subsState) down(n int) {
	if s.cursor < n-1 {
		s.cursor++
	}
}

// visibleWindow returns the first list index shown so that cursor stays
// inside a window of the given height.
func visibleWindow(cursor, visible int) int {
	if cursor >= visible {
		return cursor - visible + 1
	}
	return 0
}

func (a App) renderSubscriptionsTab(cw, h int) string {
	t := theme.Active
	subs := a.subs

	if len(subs) == 0 {
		return components.ContentCard("Subscriptions",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(
				"No subscriptions yet. Add one with `budgetbuddy add subscription` or import statements with repeating charges."),
			cw)
	}

	var leftW, rightW int
	if a.isCompactLayout() {
		leftW, rightW = cw, cw
	} else {
		leftW = cw * 3 / 5
		rightW = cw - leftW
	}

	list := a.renderSubscriptionList(leftW, h)
	detail := a.renderSubscriptionDetail(subs[a.subState.cursor], rightW)

	if a.isCompactLayout() {
		return list + "\n" + detail
	}
	return components.CardRow([]string{list, detail})
}

func (a App) renderSubscriptionList(w, h int) string {
	t := theme.Active
	subs := a.subs
	innerW := components.CardInnerWidth(w)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	costW, freqW, nextW := 11, 12, 10
	nameW := max(innerW-costW-freqW-nextW-3, 8)

	line := func(name, freq, cost, next string) string {
		return fmt.Sprintf("%-*s %-*s %*s %*s", nameW, truncStr(name, nameW), freqW, truncStr(freq, freqW), costW, cost, nextW, next)
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(line("Merchant", "Frequency", "Monthly", "Next")))
	body.WriteString("\n")

	visible := max(h-7, 3) // border, title, header, footer
	offset := visibleWindow(a.subState.cursor, visible)
	end := min(offset+visible, len(subs))

	for i := offset; i < end; i++ {
		s := subs[i]
		text := line(s.Merchant, subscriptions.FrequencyName(s.IntervalDays), cli.FormatMoney(s.MonthlyCost), s.NextChargeDate)
		if i == a.subState.cursor {
			body.WriteString(selectedStyle.Render(fmt.Sprintf("%-*s", innerW, text)))
		} else {
			body.WriteString(rowStyle.Render(text))
		}
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(fmt.Sprintf("%d subscriptions · %s / month   [j/k] select",
		len(subs), cli.FormatMoney(a.subsTotal))))

	return components.ContentCard("Subscriptions", body.String(), w)
}

func (a App) renderSubscriptionDetail(s model.Subscription, w int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var body strings.Builder
	body.WriteString(accentStyle.Render(s.Merchant))
	body.WriteString("\n\n")

	row := func(label, value string) {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		body.WriteString(valueStyle.Render(value))
		body.WriteString("\n")
	}

	if s.Description != "" {
		row("Description", s.Description)
	}
	row("Category", orDash(s.Category))
	row("Charge", cli.FormatMoney(s.Amount))
	row("Frequency", subscriptions.FrequencyName(s.IntervalDays))
	row("Monthly cost", cli.FormatMoney(s.MonthlyCost))
	row("Next charge", orDash(s.NextChargeDate))

	if s.Manual {
		row("Source", "added by hand")
	} else {
		row("Source", fmt.Sprintf("detected from %d charges", s.Occurrences))
		row("Confidence", fmt.Sprintf("%.0f%%", s.Confidence*100))
	}

	return components.ContentCard("Details", strings.TrimRight(body.String(), "\n"), w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
