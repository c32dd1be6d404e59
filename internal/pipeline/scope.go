package pipeline

import (
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
)

// CurrentScope returns the period of the given granularity containing now.
// Weeks start on Monday.
func CurrentScope(g model.Granularity, now time.Time) model.Scope {
	d := projection.Day(now)
	y, m, _ := d.Date()

	switch g {
	case model.Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		start := d.AddDate(0, 0, -offset)
		return model.Scope{Start: start, End: start.AddDate(0, 0, 6)}
	case model.Yearly:
		return model.Scope{
			Start: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return model.Scope{Start: start, End: start.AddDate(0, 1, -1)}
	}
}

// ShiftScope moves a scope by n whole periods (negative n moves back).
func ShiftScope(s model.Scope, g model.Granularity, n int) model.Scope {
	switch g {
	case model.Weekly:
		return CurrentScope(g, s.Start.AddDate(0, 0, 7*n))
	case model.Yearly:
		return CurrentScope(g, s.Start.AddDate(n, 0, 0))
	default:
		y, m, _ := s.Start.Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return CurrentScope(g, first.AddDate(0, n, 0))
	}
}

// ScopeTitle renders a short human title for a scope.
func ScopeTitle(s model.Scope, g model.Granularity) string {
	switch g {
	case model.Weekly:
		return s.Start.Format("Jan 2") + " - " + s.End.Format("Jan 2, 2006")
	case model.Yearly:
		return s.Start.Format("2006")
	default:
		return s.Start.Format("January 2006")
	}
}
