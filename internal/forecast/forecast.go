// Package forecast computes budget usage and savings-goal estimates.
package forecast

import (
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetUsage returns the share of the monthly budget already spent, as a
// whole percentage clamped to [0, 100]. It is unavailable when no budget is
// set.
func BudgetUsage(monthlyBudget, spent decimal.Decimal) model.BudgetUsage {
	if !monthlyBudget.IsPositive() {
		return model.BudgetUsage{}
	}
	pct := spent.Mul(hundred).Div(monthlyBudget).Round(0).IntPart()
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return model.BudgetUsage{Percent: int(pct), Available: true}
}

// SavingsForecast estimates how long saving the difference between average
// income and the monthly budget takes to reach the goal.
//
// Average income is taken over history months with positive income. When
// there are none, currentMonthIncome is used instead.
func SavingsForecast(savingsGoal, monthlyBudget decimal.Decimal, history []model.MonthlyCashflow, currentMonthIncome decimal.Decimal) model.ForecastResult {
	if !savingsGoal.IsPositive() || !monthlyBudget.IsPositive() {
		return model.ForecastResult{Status: model.ForecastNotSet}
	}

	avg := AverageIncome(history, currentMonthIncome)
	if !avg.IsPositive() {
		return model.ForecastResult{Status: model.ForecastUnavailable}
	}

	savings := avg.Sub(monthlyBudget)
	res := model.ForecastResult{
		AverageMonthlyIncome:    avg,
		ProjectedMonthlySavings: savings,
	}
	if !savings.IsPositive() {
		res.Status = model.ForecastNotReachable
		return res
	}

	months := int(savingsGoal.Div(savings).Ceil().IntPart())
	res.Status = model.ForecastOK
	res.Months = months
	res.Years = months / 12
	res.RemainingMonths = months % 12
	return res
}

// AverageIncome is the mean income of history months with positive income,
// or fallback when no month qualifies.
func AverageIncome(history []model.MonthlyCashflow, fallback decimal.Decimal) decimal.Decimal {
	var sum decimal.Decimal
	n := 0
	for _, h := range history {
		if h.Income.IsPositive() {
			sum = sum.Add(h.Income)
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// ProjectMonth extrapolates month-to-date spend linearly to the end of the
// month containing now.
func ProjectMonth(monthlyBudget, spent decimal.Decimal, now time.Time) model.BudgetStats {
	y, m, day := now.Date()
	daysInMonth := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()

	burn := spent.Div(decimal.NewFromInt(int64(day)))
	projected := burn.Mul(decimal.NewFromInt(int64(daysInMonth)))

	stats := model.BudgetStats{
		Budget:           monthlyBudget,
		CurrentSpend:     spent,
		DailyBurnRate:    burn.Round(2),
		ProjectedMonthly: projected.Round(2),
		DaysElapsed:      day,
		DaysRemaining:    daysInMonth - day,
	}

	usage := BudgetUsage(monthlyBudget, spent)
	stats.HasBudget = usage.Available
	stats.BudgetUsedPercent = usage.Percent
	if usage.Available && projected.GreaterThan(monthlyBudget) {
		stats.ProjectedOverrun = projected.Sub(monthlyBudget).Round(2)
	}
	return stats
}
