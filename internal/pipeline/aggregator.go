// Package pipeline turns transactions into scoped, aggregated views and
// loads them from CSV sources.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"

	"github.com/shopspring/decimal"
)

// BucketKey returns the bucket key, label and detail label for date d.
func BucketKey(d time.Time, g model.Granularity) (key, label, detail string) {
	y, m, day := d.Date()
	switch g {
	case model.Weekly:
		return d.Format(projection.DateLayout), d.Format("Mon"), d.Format("January 2, 2006")
	case model.Yearly:
		return fmt.Sprintf("%04d-%02d", y, int(m)), m.String()[:3], d.Format("January 2006")
	default:
		week := (day-1)/7 + 1
		first := (week-1)*7 + 1
		last := first + 6
		if dim := daysIn(y, m); last > dim {
			last = dim
		}
		return fmt.Sprintf("%04d-%02d-W%d", y, int(m), week),
			fmt.Sprintf("%s week %d", m, week),
			fmt.Sprintf("%s %d - %s %d", m.String()[:3], first, m.String()[:3], last)
	}
}

// BucketOccurrences groups in-scope occurrences into period buckets ordered
// by key. A bucket exists only for periods with at least one occurrence.
func BucketOccurrences(occ []model.Occurrence, g model.Granularity, scope model.Scope, goals model.Goals) []model.Bucket {
	target := budgetTarget(goals)
	bucketMap := make(map[string]*model.Bucket)

	for _, o := range occ {
		if !scope.Contains(o.Date) {
			continue
		}
		key, label, detail := BucketKey(o.Date, g)
		b, ok := bucketMap[key]
		if !ok {
			b = &model.Bucket{
				Key:          key,
				Label:        label,
				DetailLabel:  detail,
				BudgetTarget: target,
			}
			bucketMap[key] = b
		}

		if o.Amount.IsNegative() {
			b.Income = b.Income.Add(o.Amount.Abs())
		} else {
			b.Expenses = b.Expenses.Add(o.Amount)
		}
		b.Net = b.Income.Sub(b.Expenses)
	}

	buckets := make([]model.Bucket, 0, len(bucketMap))
	for _, b := range bucketMap {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// FillBuckets returns one bucket for every period of the scope, taking
// totals from buckets where present, so charts show empty periods as zero.
func FillBuckets(buckets []model.Bucket, g model.Granularity, scope model.Scope, goals model.Goals) []model.Bucket {
	byKey := make(map[string]model.Bucket, len(buckets))
	for _, b := range buckets {
		byKey[b.Key] = b
	}

	var out []model.Bucket
	seen := make(map[string]struct{})
	for d := scope.Start; !d.After(scope.End); d = d.AddDate(0, 0, 1) {
		key, label, detail := BucketKey(d, g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if b, ok := byKey[key]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, model.Bucket{
			Key:          key,
			Label:        label,
			DetailLabel:  detail,
			BudgetTarget: budgetTarget(goals),
		})
	}
	return out
}

// CategoryTotals sums in-scope expenses per category, largest first.
// Ties are ordered by category name.
func CategoryTotals(occ []model.Occurrence, scope model.Scope) []model.CategoryTotal {
	catMap := make(map[string]decimal.Decimal)
	for _, o := range occ {
		if !o.Amount.IsPositive() || !scope.Contains(o.Date) {
			continue
		}
		catMap[o.Category] = catMap[o.Category].Add(o.Amount)
	}

	totals := make([]model.CategoryTotal, 0, len(catMap))
	for cat, amt := range catMap {
		totals = append(totals, model.CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// Totals returns income and expenses for the occurrences inside scope.
func Totals(occ []model.Occurrence, scope model.Scope) (income, expenses decimal.Decimal) {
	for _, o := range occ {
		if !scope.Contains(o.Date) {
			continue
		}
		if o.Amount.IsNegative() {
			income = income.Add(o.Amount.Abs())
		} else {
			expenses = expenses.Add(o.Amount)
		}
	}
	return income, expenses
}

// MonthlyCashflow groups occurrences dated before the month containing
// before into calendar months, oldest first.
func MonthlyCashflow(occ []model.Occurrence, before time.Time) []model.MonthlyCashflow {
	y, m, _ := before.Date()
	cutoff := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	monthMap := make(map[string]*model.MonthlyCashflow)
	for _, o := range occ {
		if !o.Date.Before(cutoff) {
			continue
		}
		key := o.Date.Format("2006-01")
		mc, ok := monthMap[key]
		if !ok {
			mc = &model.MonthlyCashflow{Month: key}
			monthMap[key] = mc
		}
		if o.Amount.IsNegative() {
			mc.Income = mc.Income.Add(o.Amount.Abs())
		} else {
			mc.Expenses = mc.Expenses.Add(o.Amount)
		}
		mc.Net = mc.Income.Sub(mc.Expenses)
	}

	months := make([]model.MonthlyCashflow, 0, len(monthMap))
	for _, mc := range monthMap {
		months = append(months, *mc)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})
	return months
}

func budgetTarget(goals model.Goals) decimal.Decimal {
	if goals.MonthlyBudget.IsPositive() {
		return goals.MonthlyBudget
	}
	return decimal.Zero
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
