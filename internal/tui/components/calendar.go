package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CalendarCellWidth returns the column width used by MonthGrid for a grid
// rendered inside width columns.
func CalendarCellWidth(width int) int {
	return min(max(width/7, 5), 12)
}

// MonthGrid renders the day cells as a Sunday-first grid. Days with events
// show a dot count; selected and today are highlighted. Zero times disable
// the corresponding highlight.
func MonthGrid(cells []model.DayCell, selected, today time.Time, width int) string {
	t := theme.Active
	cellW := CalendarCellWidth(width)

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true).Width(cellW)
	dayStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(cellW)
	outStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(cellW)
	todayStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Width(cellW)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true).Width(cellW)
	eventStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Width(cellW)
	selEventStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.SurfaceBright).Width(cellW)

	var b strings.Builder
	for _, h := range weekdayHeaders {
		b.WriteString(headerStyle.Render(" " + h))
	}

	for i := 0; i < len(cells); i += 7 {
		row := cells[i:min(i+7, len(cells))]
		b.WriteString("\n")
		b.WriteString(renderDayRow(row, selected, today, dayStyle, outStyle, todayStyle, selStyle))
		b.WriteString("\n")
		for _, c := range row {
			style := eventStyle
			if sameDay(c.Date, selected) {
				style = selEventStyle
			}
			b.WriteString(style.Render(eventMarker(c, cellW)))
		}
	}
	return b.String()
}

func renderDayRow(row []model.DayCell, selected, today time.Time, day, out, todayS, sel lipgloss.Style) string {
	var b strings.Builder
	for _, c := range row {
		label := fmt.Sprintf(" %2d", c.Date.Day())
		switch {
		case sameDay(c.Date, selected):
			b.WriteString(sel.Render(label))
		case !c.InMonth:
			b.WriteString(out.Render(label))
		case sameDay(c.Date, today):
			b.WriteString(todayS.Render(label))
		default:
			b.WriteString(day.Render(label))
		}
	}
	return b.String()
}

func eventMarker(c model.DayCell, cellW int) string {
	if c.EventCount == 0 {
		return ""
	}
	dots := min(c.EventCount, cellW-2)
	if c.EventCount > dots {
		return " " + strings.Repeat("•", max(dots-1, 0)) + "+"
	}
	return " " + strings.Repeat("•", dots)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
