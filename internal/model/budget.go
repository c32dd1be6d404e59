package model

import "github.com/shopspring/decimal"

// Goals holds the user's monthly budget and savings target. Zero means unset.
type Goals struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	SavingsGoal   decimal.Decimal `json:"savings_goal"`
}

// HasBudget reports whether a positive monthly budget is set.
func (g Goals) HasBudget() bool {
	return g.MonthlyBudget.IsPositive()
}

// BudgetStats holds month-to-date spend and its linear projection.
type BudgetStats struct {
	Budget            decimal.Decimal `json:"budget"`
	CurrentSpend      decimal.Decimal `json:"current_spend"`
	DailyBurnRate     decimal.Decimal `json:"daily_burn_rate"`
	ProjectedMonthly  decimal.Decimal `json:"projected_monthly"`
	ProjectedOverrun  decimal.Decimal `json:"projected_overrun"`
	DaysElapsed       int             `json:"days_elapsed"`
	DaysRemaining     int             `json:"days_remaining"`
	BudgetUsedPercent int             `json:"budget_used_percent"`
	HasBudget         bool            `json:"has_budget"`
}

// ForecastStatus tells the caller which fields of a ForecastResult are set.
type ForecastStatus string

const (
	// ForecastOK means Months, Years and RemainingMonths are valid.
	ForecastOK ForecastStatus = "ok"
	// ForecastNotReachable means income does not exceed the budget.
	ForecastNotReachable ForecastStatus = "not_reachable"
	// ForecastUnavailable means there is no income data to average.
	ForecastUnavailable ForecastStatus = "unavailable"
	// ForecastNotSet means the savings goal or budget is missing.
	ForecastNotSet ForecastStatus = "not_set"
)

// ForecastResult is the outcome of a savings-goal forecast.
type ForecastResult struct {
	Status                  ForecastStatus  `json:"status"`
	AverageMonthlyIncome    decimal.Decimal `json:"average_monthly_income"`
	ProjectedMonthlySavings decimal.Decimal `json:"projected_monthly_savings"`
	Months                  int             `json:"months"`
	Years                   int             `json:"years"`
	RemainingMonths         int             `json:"remaining_months"`
}

// BudgetUsage is a clamped percentage of the monthly budget already spent.
// Available is false when no budget is set.
type BudgetUsage struct {
	Percent   int  `json:"percent"`
	Available bool `json:"available"`
}
