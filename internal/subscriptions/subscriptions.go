// Package subscriptions tracks recurring charges: the ones entered by hand
// and the ones detected in imported transactions.
package subscriptions

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"

	"github.com/shopspring/decimal"
)

// DefaultIntervalDays is assumed when a subscription has no interval.
const DefaultIntervalDays = 30

// Frequency is a named billing interval.
type Frequency struct {
	Name string
	Days int
}

// Frequencies are the presets offered when adding a subscription.
var Frequencies = []Frequency{
	{"weekly", 7},
	{"biweekly", 14},
	{"monthly", 30},
	{"quarterly", 90},
	{"yearly", 365},
}

// ParseFrequency accepts a preset name or a positive number of days.
func ParseFrequency(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Frequencies {
		if f.Name == s {
			return f.Days, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid frequency %q: use a preset (weekly, biweekly, monthly, quarterly, yearly) or a number of days", s)
	}
	return n, nil
}

// FrequencyName returns the preset name for days, or "every N days".
func FrequencyName(days int) string {
	for _, f := range Frequencies {
		if f.Days == days {
			return f.Name
		}
	}
	return fmt.Sprintf("every %d days", days)
}

// MonthlyCost normalizes a per-charge amount to a 30-day month.
func MonthlyCost(amount decimal.Decimal, intervalDays int) decimal.Decimal {
	if intervalDays <= 0 {
		intervalDays = DefaultIntervalDays
	}
	return amount.Abs().Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(int64(intervalDays))).Round(2)
}

// DedupKey identifies a subscription by merchant, interval, monthly cost
// and next charge date. Two records with the same key are the same charge.
func DedupKey(s model.Subscription) string {
	interval := s.IntervalDays
	if interval <= 0 {
		interval = DefaultIntervalDays
	}
	next := s.NextChargeDate
	if len(next) > 10 {
		next = next[:10]
	}
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(s.Merchant)),
		strconv.Itoa(interval),
		s.MonthlyCost.StringFixed(2),
		next,
	}, "|")
}

// FromTransaction describes a manually entered subscription record.
func FromTransaction(tx model.Transaction) model.Subscription {
	interval := tx.IntervalDays
	if interval <= 0 {
		interval = DefaultIntervalDays
	}
	next := strings.TrimSpace(tx.NextChargeDate)
	if next == "" {
		next = strings.TrimSpace(tx.Date)
	}
	amount := projection.Amount(tx).Abs()
	return model.Subscription{
		Merchant:       tx.Merchant,
		Description:    tx.Description,
		Category:       tx.Category,
		IntervalDays:   interval,
		Amount:         amount,
		MonthlyCost:    MonthlyCost(amount, interval),
		NextChargeDate: next,
		Confidence:     1,
		Manual:         true,
		TxID:           tx.ID,
	}
}

// Manual returns the manually entered subscriptions among txs.
func Manual(txs []model.Transaction) []model.Subscription {
	var out []model.Subscription
	for _, tx := range txs {
		if tx.Source == model.SourceManualSubscription {
			out = append(out, FromTransaction(tx))
		}
	}
	return out
}

// ToTransaction turns a subscription into a manual subscription record so
// a detected charge can be confirmed and tracked.
func ToTransaction(s model.Subscription, id string) model.Transaction {
	amount, _ := s.Amount.Float64()
	return model.Transaction{
		ID:             id,
		Date:           s.NextChargeDate,
		Merchant:       s.Merchant,
		Description:    s.Description,
		Category:       s.Category,
		Amount:         amount,
		Source:         model.SourceManualSubscription,
		IntervalDays:   s.IntervalDays,
		NextChargeDate: s.NextChargeDate,
	}
}

// Merge combines manual and detected subscriptions. A detected entry whose
// DedupKey matches a manual one is dropped. The result is ordered by
// monthly cost, highest first, then by merchant.
func Merge(detected, manual []model.Subscription) []model.Subscription {
	seen := make(map[string]struct{}, len(manual))
	out := make([]model.Subscription, 0, len(detected)+len(manual))
	for _, s := range manual {
		seen[DedupKey(s)] = struct{}{}
		out = append(out, s)
	}
	for _, s := range detected {
		if _, ok := seen[DedupKey(s)]; ok {
			continue
		}
		out = append(out, s)
	}
	sortByCost(out)
	return out
}

// MonthlyTotal sums the monthly cost of every subscription.
func MonthlyTotal(subs []model.Subscription) decimal.Decimal {
	var total decimal.Decimal
	for _, s := range subs {
		total = total.Add(s.MonthlyCost)
	}
	return total
}

func sortByCost(subs []model.Subscription) {
	sort.SliceStable(subs, func(i, j int) bool {
		if c := subs[i].MonthlyCost.Cmp(subs[j].MonthlyCost); c != 0 {
			return c > 0
		}
		return strings.ToLower(subs[i].Merchant) < strings.ToLower(subs[j].Merchant)
	})
}

// List returns the manual subscriptions in txs merged with the ones
// detected from imported charges.
func List(txs []model.Transaction) []model.Subscription {
	return Merge(Detect(txs, DefaultDetectOptions), Manual(txs))
}
