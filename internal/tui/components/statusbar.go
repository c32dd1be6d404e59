package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom status bar shows besides the key hints.
type StatusInfo struct {
	Dataset    string
	DataAge    string
	Refreshing bool
	// BudgetPct is the month's budget usage in [0,1]; negative hides the gauge.
	BudgetPct float64
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := dimStyle.Render(" [?]help  [q]uit")
	if info.Dataset != "" {
		left += dimStyle.Render("  dataset ") + accentStyle.Render(info.Dataset)
	}

	var right string
	if info.BudgetPct >= 0 {
		right = CompactBudgetBar("Budget", info.BudgetPct, 24) + dimStyle.Render("  ")
	}
	switch {
	case info.Refreshing:
		right += accentStyle.Render("refreshing… ")
	case info.DataAge != "":
		right += dimStyle.Render(fmt.Sprintf("Data: %s ", info.DataAge))
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left + dimStyle.Render(strings.Repeat(" ", padding)) + right
	return style.Render(bar)
}
