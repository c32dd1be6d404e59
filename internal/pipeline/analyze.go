package pipeline

import (
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/forecast"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"

	"github.com/shopspring/decimal"
)

// Input is everything Analyze needs. Nothing is read from the wall clock:
// Now is the caller's notion of today.
type Input struct {
	Transactions []model.Transaction
	Goals        model.Goals
	Granularity  model.Granularity
	// Scope overrides the period containing Now when set.
	Scope       *model.Scope
	Now         time.Time
	HorizonDays int
}

// Result is the full aggregated view for one scope.
type Result struct {
	Granularity model.Granularity     `json:"granularity"`
	Scope       model.Scope           `json:"scope"`
	Horizon     time.Time             `json:"horizon"`
	Buckets     []model.Bucket        `json:"buckets"`
	Categories  []model.CategoryTotal `json:"categories"`
	Income      decimal.Decimal       `json:"income"`
	Expenses    decimal.Decimal       `json:"expenses"`
	Net         decimal.Decimal       `json:"net"`

	SpentThisMonth  decimal.Decimal         `json:"spent_this_month"`
	IncomeThisMonth decimal.Decimal         `json:"income_this_month"`
	Cashflow        []model.MonthlyCashflow `json:"cashflow"`
	BudgetUsage     model.BudgetUsage       `json:"budget_usage"`
	Forecast        model.ForecastResult    `json:"forecast"`
	Budget          model.BudgetStats       `json:"budget"`
	Summary         Summary                 `json:"summary"`
}

// Analyze projects the transactions and computes every aggregate for the
// requested scope plus the month containing Now.
func Analyze(in Input) Result {
	g := in.Granularity
	if g == "" {
		g = model.Monthly
	}
	scope := CurrentScope(g, in.Now)
	if in.Scope != nil {
		scope = *in.Scope
	}

	horizon := projection.Horizon(in.Now, in.HorizonDays)
	occ := projection.Expand(in.Transactions, horizon)

	res := Result{
		Granularity: g,
		Scope:       scope,
		Horizon:     horizon,
		Buckets:     BucketOccurrences(occ, g, scope, in.Goals),
		Categories:  CategoryTotals(occ, scope),
	}
	res.Income, res.Expenses = Totals(occ, scope)
	res.Net = res.Income.Sub(res.Expenses)
	res.Summary = Summarize(occ, scope, in.Now, DefaultUpcomingDays)

	month := CurrentScope(model.Monthly, in.Now)
	res.IncomeThisMonth, res.SpentThisMonth = Totals(occ, month)
	res.Cashflow = MonthlyCashflow(occ, in.Now)

	res.BudgetUsage = forecast.BudgetUsage(in.Goals.MonthlyBudget, res.SpentThisMonth)
	res.Forecast = forecast.SavingsForecast(in.Goals.SavingsGoal, in.Goals.MonthlyBudget, res.Cashflow, res.IncomeThisMonth)
	res.Budget = forecast.ProjectMonth(in.Goals.MonthlyBudget, res.SpentThisMonth, in.Now)
	return res
}
