package subscriptions

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// DetectOptions tunes recurring-charge detection.
type DetectOptions struct {
	// MinCharges is the fewest charges a merchant needs.
	MinCharges int
	// Cadences are the billing intervals a median gap may snap to.
	Cadences []int
	// ToleranceDays is how far the median gap may sit from a cadence.
	ToleranceDays float64
	// MaxNameDistance groups merchant names within this edit distance.
	// Names shorter than minFuzzyLen only group on exact match.
	MaxNameDistance int
}

// DefaultDetectOptions match weekly, biweekly and monthly billing.
var DefaultDetectOptions = DetectOptions{
	MinCharges:      3,
	Cadences:        []int{7, 14, 30},
	ToleranceDays:   3,
	MaxNameDistance: 2,
}

const minFuzzyLen = 6

type charge struct {
	date     time.Time
	amount   decimal.Decimal
	merchant string
}

// Detect finds merchants charged on a regular cadence. Only one-off
// expenses with parseable dates are considered.
func Detect(txs []model.Transaction, opts DetectOptions) []model.Subscription {
	if opts.MinCharges < 2 {
		opts.MinCharges = 2
	}

	byName := make(map[string][]charge)
	for _, tx := range txs {
		if tx.Source == model.SourceManualSubscription || tx.Source == model.SourceOneTimeFuture {
			continue
		}
		amount := projection.Amount(tx)
		if !amount.IsPositive() {
			continue
		}
		d, ok := projection.ParseDate(tx.Date)
		if !ok {
			continue
		}
		name := normalizeMerchant(tx.Merchant)
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], charge{date: d, amount: amount, merchant: strings.TrimSpace(tx.Merchant)})
	}

	var out []model.Subscription
	for _, group := range groupNames(byName, opts.MaxNameDistance) {
		var charges []charge
		for _, name := range group {
			charges = append(charges, byName[name]...)
		}
		if s, ok := analyzeCharges(charges, opts); ok {
			out = append(out, s)
		}
	}

	sortByCost(out)
	return out
}

// groupNames clusters normalized names whose edit distance is small.
// Names are visited in sorted order so clustering is deterministic.
func groupNames(byName map[string][]charge, maxDist int) [][]string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var groups [][]string
	for _, n := range names {
		placed := false
		for i, g := range groups {
			if similar(g[0], n, maxDist) {
				groups[i] = append(groups[i], n)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []string{n})
		}
	}
	return groups
}

func similar(a, b string, maxDist int) bool {
	if a == b {
		return true
	}
	if maxDist <= 0 || len(a) < minFuzzyLen || len(b) < minFuzzyLen {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= maxDist
}

func analyzeCharges(charges []charge, opts DetectOptions) (model.Subscription, bool) {
	if len(charges) < opts.MinCharges {
		return model.Subscription{}, false
	}
	sort.Slice(charges, func(i, j int) bool {
		return charges[i].date.Before(charges[j].date)
	})

	gaps := make([]float64, 0, len(charges)-1)
	for i := 1; i < len(charges); i++ {
		gaps = append(gaps, charges[i].date.Sub(charges[i-1].date).Hours()/24)
	}
	if len(gaps) < 2 {
		return model.Subscription{}, false
	}

	med := median(gaps)
	if _, ok := snapCadence(med, opts.Cadences, opts.ToleranceDays); !ok {
		return model.Subscription{}, false
	}

	interval := int(math.Round(med))
	if interval <= 0 {
		return model.Subscription{}, false
	}

	var sum decimal.Decimal
	for _, c := range charges {
		sum = sum.Add(c.amount)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(charges)))).Round(2)
	last := charges[len(charges)-1]

	confidence := math.Max(0, 1-stddev(gaps)/10)
	confidence = math.Round(confidence*100) / 100

	return model.Subscription{
		Merchant:       displayName(charges),
		IntervalDays:   interval,
		Amount:         avg,
		MonthlyCost:    MonthlyCost(avg, interval),
		NextChargeDate: projection.FormatDate(last.date.AddDate(0, 0, interval)),
		Confidence:     confidence,
		Occurrences:    len(charges),
	}, true
}

// snapCadence returns the cadence closest to gap when it is within tol.
func snapCadence(gap float64, cadences []int, tol float64) (int, bool) {
	best, bestDiff := 0, math.Inf(1)
	for _, c := range cadences {
		if d := math.Abs(gap - float64(c)); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	if bestDiff > tol {
		return 0, false
	}
	return best, true
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// displayName picks the most frequent spelling of the merchant, breaking
// ties alphabetically.
func displayName(charges []charge) string {
	counts := make(map[string]int)
	for _, c := range charges {
		counts[c.merchant]++
	}
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	return best
}

// normalizeMerchant lowercases the name, drops digits and punctuation, and
// collapses whitespace, so "NETFLIX.COM 1234" and "Netflix.com" match.
func normalizeMerchant(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			space = false
		case b.Len() > 0 && !space:
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
