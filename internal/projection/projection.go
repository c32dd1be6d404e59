// Package projection expands transaction records into concrete dated
// occurrences. Every function is pure: the only notion of "now" is the
// horizon passed in by the caller.
package projection

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultHorizonDays is how far ahead recurring records are projected when
// the caller does not configure a horizon.
const DefaultHorizonDays = 370

// DateLayout is the civil-date layout used throughout the dataset.
const DateLayout = "2006-01-02"

// Fallback categories for occurrences whose record has none.
const (
	SubscriptionCategory = "Subscription"
	OtherCategory        = "Other"
)

// ParseDate parses a civil date. It accepts YYYY-MM-DD and RFC 3339
// timestamps (truncated to the date as written). The result is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), true
	}
	return time.Time{}, false
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day returns the calendar date of t (in t's own location) as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Horizon returns the projection bound for the given day. Non-positive
// days select DefaultHorizonDays.
func Horizon(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultHorizonDays
	}
	return Day(now).AddDate(0, 0, days)
}

// Anchor returns the recurrence anchor: next_charge_date when set,
// otherwise date. A set but malformed next_charge_date has no anchor.
func Anchor(tx model.Transaction) (time.Time, bool) {
	if strings.TrimSpace(tx.NextChargeDate) != "" {
		return ParseDate(tx.NextChargeDate)
	}
	return ParseDate(tx.Date)
}

// IsRecurring reports whether tx repeats every IntervalDays days.
func IsRecurring(tx model.Transaction) bool {
	if tx.Source != model.SourceManualSubscription || tx.IntervalDays <= 0 {
		return false
	}
	_, ok := Anchor(tx)
	return ok
}

// Project returns the dates on which tx occurs. A non-recurring record
// yields its own date, or nothing if the date does not parse. A recurring
// record yields anchor + n*interval for every n that stays on or before
// horizonEnd.
func Project(tx model.Transaction, horizonEnd time.Time) []time.Time {
	if !IsRecurring(tx) {
		d, ok := ParseDate(tx.Date)
		if !ok {
			return nil
		}
		return []time.Time{d}
	}

	anchor, _ := Anchor(tx)
	horizonEnd = Day(horizonEnd)
	if anchor.After(horizonEnd) {
		return nil
	}

	n := int(horizonEnd.Sub(anchor).Hours()/24)/tx.IntervalDays + 1
	dates := make([]time.Time, 0, n)
	for d := anchor; !d.After(horizonEnd); d = d.AddDate(0, 0, tx.IntervalDays) {
		dates = append(dates, d)
	}
	return dates
}

// Amount converts the raw amount to a decimal. NaN and infinities count
// as zero.
func Amount(tx model.Transaction) decimal.Decimal {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(tx.Amount)
}

// Expand projects every transaction up to horizonEnd and returns the
// occurrences ordered by date. Recurring occurrences always count as
// expenses.
func Expand(txs []model.Transaction, horizonEnd time.Time) []model.Occurrence {
	var out []model.Occurrence
	for _, tx := range txs {
		dates := Project(tx, horizonEnd)
		if len(dates) == 0 {
			continue
		}

		recurring := IsRecurring(tx)
		amount := Amount(tx)
		category := strings.TrimSpace(tx.Category)
		if recurring {
			amount = amount.Abs()
			if category == "" {
				category = SubscriptionCategory
			}
		} else if category == "" {
			category = OtherCategory
		}

		for _, d := range dates {
			out = append(out, model.Occurrence{
				Date:      d,
				Amount:    amount,
				Category:  category,
				Merchant:  tx.Merchant,
				TxID:      tx.ID,
				Recurring: recurring,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
