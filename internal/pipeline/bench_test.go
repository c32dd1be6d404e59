package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
)

// syntheticTransactions builds a year of daily spending plus a handful of
// subscriptions and monthly paychecks.
func syntheticTransactions() []model.Transaction {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	cats := []string{"Food", "Groceries", "Transport", "Shopping"}

	var txs []model.Transaction
	for d := 0; d < 365; d++ {
		day := start.AddDate(0, 0, d)
		txs = append(txs, model.Transaction{
			ID:       fmt.Sprintf("day-%d", d),
			Date:     projection.FormatDate(day),
			Merchant: "Store",
			Category: cats[d%len(cats)],
			Amount:   float64(10 + d%40),
			Source:   model.SourceCSV,
		})
		if day.Day() == 25 {
			txs = append(txs, model.Transaction{
				ID: fmt.Sprintf("pay-%d", d), Date: projection.FormatDate(day),
				Merchant: "Employer", Category: "Salary", Amount: -4000, Source: model.SourceCSV,
			})
		}
	}
	for i, interval := range []int{7, 14, 30, 90, 365} {
		txs = append(txs, model.Transaction{
			ID: fmt.Sprintf("sub-%d", i), Date: "2023-01-03", Merchant: fmt.Sprintf("Service %d", i),
			Amount: 9.99, Source: model.SourceManualSubscription, IntervalDays: interval,
		})
	}
	return txs
}

func BenchmarkAnalyze(b *testing.B) {
	txs := syntheticTransactions()
	goals := model.Goals{MonthlyBudget: decimal.NewFromInt(2500), SavingsGoal: decimal.NewFromInt(20000)}
	now := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)

	for _, g := range model.Granularities {
		b.Run(string(g), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Analyze(Input{Transactions: txs, Goals: goals, Granularity: g, Now: now})
			}
		})
	}
}

func BenchmarkExpand(b *testing.B) {
	txs := syntheticTransactions()
	horizon := projection.Horizon(time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), 0)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = projection.Expand(txs, horizon)
	}
}
