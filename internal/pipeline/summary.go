package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

// DefaultUpcomingDays is how far ahead Summarize looks for upcoming charges.
const DefaultUpcomingDays = 7

// Summary highlights the spending inside a scope.
type Summary struct {
	TopCategory    *model.CategoryTotal `json:"top_category,omitempty"`
	LargestExpense *model.Occurrence    `json:"largest_expense,omitempty"`
	DailyAverage   decimal.Decimal      `json:"daily_average"`
	DaysElapsed    int                  `json:"days_elapsed"`
	Upcoming       []model.Occurrence   `json:"upcoming"`
	UpcomingTotal  decimal.Decimal      `json:"upcoming_total"`
}

// Summarize computes spending highlights. The daily average covers expenses
// from the scope start through now (or the scope end if earlier). Upcoming
// lists expenses dated in the days after now, soonest first.
func Summarize(occ []model.Occurrence, scope model.Scope, now time.Time, upcomingDays int) Summary {
	var s Summary
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if cats := CategoryTotals(occ, scope); len(cats) > 0 {
		top := cats[0]
		s.TopCategory = &top
	}

	elapsed := model.Scope{Start: scope.Start, End: scope.End}
	if today.Before(elapsed.End) {
		elapsed.End = today
	}
	s.DaysElapsed = elapsed.Days()

	var spent decimal.Decimal
	for i := range occ {
		o := occ[i]
		if !o.Amount.IsPositive() || !scope.Contains(o.Date) {
			continue
		}
		if s.LargestExpense == nil || o.Amount.GreaterThan(s.LargestExpense.Amount) {
			s.LargestExpense = &o
		}
		if elapsed.Contains(o.Date) {
			spent = spent.Add(o.Amount)
		}
	}
	if s.DaysElapsed > 0 {
		s.DailyAverage = spent.Div(decimal.NewFromInt(int64(s.DaysElapsed))).Round(2)
	}

	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	window := model.Scope{Start: today.AddDate(0, 0, 1), End: today.AddDate(0, 0, upcomingDays)}
	for _, o := range occ {
		if o.Amount.IsPositive() && window.Contains(o.Date) {
			s.Upcoming = append(s.Upcoming, o)
			s.UpcomingTotal = s.UpcomingTotal.Add(o.Amount)
		}
	}
	sort.SliceStable(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].Date.Before(s.Upcoming[j].Date)
	})
	return s
}
