package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func marchCells() []model.DayCell {
	// March 2024: Sunday Feb 25 through Saturday Apr 6.
	var cells []model.DayCell
	for d := day(2024, 2, 25); !d.After(day(2024, 4, 6)); d = d.AddDate(0, 0, 1) {
		c := model.DayCell{Date: d, InMonth: d.Month() == time.March}
		if d.Equal(day(2024, 3, 15)) {
			c.EventCount = 2
		}
		cells = append(cells, c)
	}
	return cells
}

func TestMonthGridShape(t *testing.T) {
	cells := marchCells()
	out := MonthGrid(cells, day(2024, 3, 15), day(2024, 3, 10), 70)

	lines := strings.Split(out, "\n")
	// Header plus a day row and an event row per week.
	if want := 1 + 2*len(cells)/7; len(lines) != want {
		t.Fatalf("got %d lines, want %d", len(lines), want)
	}
	if !strings.Contains(lines[0], "Sun") || !strings.Contains(lines[0], "Sat") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(out, "••") {
		t.Error("day with two events should show two dots")
	}
	cellW := CalendarCellWidth(70)
	if got := lipgloss.Width(lines[1]); got != 7*cellW {
		t.Errorf("day row width = %d, want %d", got, 7*cellW)
	}
}

func TestEventMarkerOverflow(t *testing.T) {
	c := model.DayCell{EventCount: 9}
	if got := eventMarker(c, 5); got != " ••+" {
		t.Errorf("eventMarker overflow = %q", got)
	}
	if got := eventMarker(model.DayCell{}, 5); got != "" {
		t.Errorf("eventMarker(no events) = %q, want empty", got)
	}
}
