package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func TestSummarize(t *testing.T) {
	all := []model.Occurrence{
		occ(t, "2024-03-01", 1200, "Rent"),
		occ(t, "2024-03-05", -3000, "Salary"),
		occ(t, "2024-03-09", 45.5, "Food"),
		occ(t, "2024-03-20", 400, "Travel"),
		occ(t, "2024-03-12", 15, "Streaming"),
	}
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	s := Summarize(all, scope(t, "2024-03-01", "2024-03-31"), now, 7)

	if s.TopCategory == nil || s.TopCategory.Category != "Rent" {
		t.Fatalf("TopCategory = %+v, want Rent", s.TopCategory)
	}
	if s.LargestExpense == nil || !s.LargestExpense.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("LargestExpense = %+v, want 1200", s.LargestExpense)
	}
	if s.DaysElapsed != 10 {
		t.Errorf("DaysElapsed = %d, want 10", s.DaysElapsed)
	}
	if want := decimal.RequireFromString("124.55"); !s.DailyAverage.Equal(want) {
		t.Errorf("DailyAverage = %s, want %s", s.DailyAverage, want)
	}
	if len(s.Upcoming) != 1 || s.Upcoming[0].Category != "Streaming" {
		t.Errorf("Upcoming = %+v, want only Streaming", s.Upcoming)
	}
	if !s.UpcomingTotal.Equal(decimal.NewFromInt(15)) {
		t.Errorf("UpcomingTotal = %s, want 15", s.UpcomingTotal)
	}
}

func TestSummarize_PastAndFutureScopes(t *testing.T) {
	all := []model.Occurrence{occ(t, "2024-02-10", 58, "Food")}
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	past := Summarize(all, scope(t, "2024-02-01", "2024-02-29"), now, 0)
	if past.DaysElapsed != 29 {
		t.Errorf("past DaysElapsed = %d, want 29", past.DaysElapsed)
	}
	if want := decimal.NewFromInt(2); !past.DailyAverage.Equal(want) {
		t.Errorf("past DailyAverage = %s, want %s", past.DailyAverage, want)
	}

	future := Summarize(all, scope(t, "2024-04-01", "2024-04-30"), now, 0)
	if future.DaysElapsed != 0 || !future.DailyAverage.IsZero() {
		t.Errorf("future = %d days, %s avg, want 0, 0", future.DaysElapsed, future.DailyAverage)
	}
	if future.TopCategory != nil || future.LargestExpense != nil {
		t.Errorf("future highlights = %+v", future)
	}
}
