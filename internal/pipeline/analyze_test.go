package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "pay-jan", Date: "2024-01-25", Merchant: "Employer", Category: "Salary", Amount: -3000, Source: model.SourceCSV},
		{ID: "pay-feb", Date: "2024-02-25", Merchant: "Employer", Category: "Salary", Amount: -3200, Source: model.SourceCSV},
		{ID: "rent-mar", Date: "2024-03-01", Merchant: "Landlord", Category: "Rent", Amount: 1200, Source: model.SourceManual},
		{ID: "food-mar", Date: "2024-03-09", Merchant: "Cafe", Category: "Food", Amount: 45.5, Source: model.SourceCSV},
		{ID: "netflix", Date: "2024-01-05", Merchant: "Netflix", Amount: 15, Source: model.SourceManualSubscription, IntervalDays: 30},
		{ID: "trip", Date: "2024-03-28", Merchant: "Airline", Category: "Travel", Amount: 400, Source: model.SourceOneTimeFuture},
	}
}

func TestAnalyze_Month(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	res := Analyze(Input{
		Transactions: sampleTransactions(),
		Goals:        model.Goals{MonthlyBudget: decimal.NewFromInt(2000), SavingsGoal: decimal.NewFromInt(6000)},
		Granularity:  model.Monthly,
		Now:          now,
	})

	if got := res.Scope.Start.Format("2006-01-02"); got != "2024-03-01" {
		t.Fatalf("scope start = %s, want 2024-03-01", got)
	}

	// Netflix: 01-05, 02-04, 03-05, 04-04 ... so one charge in March.
	wantExpenses := decimal.NewFromFloat(1200 + 45.5 + 15 + 400)
	if !res.Expenses.Equal(wantExpenses) {
		t.Errorf("Expenses = %s, want %s", res.Expenses, wantExpenses)
	}
	if !res.SpentThisMonth.Equal(wantExpenses) {
		t.Errorf("SpentThisMonth = %s, want %s", res.SpentThisMonth, wantExpenses)
	}
	if !res.Income.IsZero() {
		t.Errorf("Income = %s, want 0", res.Income)
	}

	if len(res.Cashflow) != 2 {
		t.Fatalf("Cashflow months = %d, want 2", len(res.Cashflow))
	}
	if res.Forecast.Status != model.ForecastOK || res.Forecast.Months != 6 {
		t.Errorf("Forecast = %+v, want ok in 6 months", res.Forecast)
	}
	if !res.BudgetUsage.Available || res.BudgetUsage.Percent != 83 {
		t.Errorf("BudgetUsage = %+v, want 83%%", res.BudgetUsage)
	}

	if len(res.Categories) == 0 || res.Categories[0].Category != "Rent" {
		t.Fatalf("top category = %+v, want Rent", res.Categories)
	}
	var sawSubscription bool
	for _, c := range res.Categories {
		if c.Category == "Subscription" {
			sawSubscription = true
		}
	}
	if !sawSubscription {
		t.Error("expected Subscription category for uncategorized recurring charge")
	}

	for _, b := range res.Buckets {
		if !b.BudgetTarget.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("bucket %s target = %s, want 2000", b.Key, b.BudgetTarget)
		}
	}
}

func TestAnalyze_ExplicitScopeAndDefaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := model.Scope{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	res := Analyze(Input{
		Transactions: sampleTransactions(),
		Granularity:  model.Yearly,
		Scope:        &s,
		Now:          now,
		HorizonDays:  60,
	})

	if got := res.Horizon.Format("2006-01-02"); got != "2024-05-09" {
		t.Errorf("Horizon = %s, want 2024-05-09", got)
	}
	// Netflix projected 01-05 .. 05-04 with a 60 day horizon: five charges.
	var subs decimal.Decimal
	for _, c := range res.Categories {
		if c.Category == "Subscription" {
			subs = c.Amount
		}
	}
	if !subs.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Subscription total = %s, want 75", subs)
	}
	if res.Forecast.Status != model.ForecastNotSet {
		t.Errorf("Forecast status = %s, want not_set", res.Forecast.Status)
	}
	if res.BudgetUsage.Available {
		t.Error("BudgetUsage should be unavailable without a budget")
	}
	if len(res.Buckets) != 5 {
		t.Errorf("yearly buckets = %d, want 5", len(res.Buckets))
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	in := Input{Transactions: sampleTransactions(), Granularity: model.Weekly, Now: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}
	a, b := Analyze(in), Analyze(in)
	if len(a.Buckets) != len(b.Buckets) {
		t.Fatalf("bucket counts differ: %d vs %d", len(a.Buckets), len(b.Buckets))
	}
	for i := range a.Buckets {
		if a.Buckets[i].Key != b.Buckets[i].Key || !a.Buckets[i].Net.Equal(b.Buckets[i].Net) {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, a.Buckets[i], b.Buckets[i])
		}
	}
}
