// Package categorize assigns spending categories from merchant keywords.
package categorize

import (
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

// Fallback is the category for transactions no rule matches.
const Fallback = "Other"

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules are evaluated in order; the first match wins. Food comes
// before Transport so "uber eats" is not read as a ride.
var DefaultRules = []Rule{
	{Category: "Food", Keywords: []string{"restaurant", "cafe", "doordash", "uber eats"}},
	{Category: "Groceries", Keywords: []string{"whole foods", "trader joe", "walmart", "kroger"}},
	{Category: "Rent", Keywords: []string{"rent", "landlord"}},
	{Category: "Transport", Keywords: []string{"gas station", "uber", "lyft", "metro", "transit"}},
	{Category: "Utilities", Keywords: []string{"electric", "water", "gas", "internet"}},
	{Category: "Entertainment", Keywords: []string{"netflix", "spotify", "hulu", "disney"}},
	{Category: "Shopping", Keywords: []string{"amazon", "target"}},
}

// Categorizer applies an ordered rule list.
type Categorizer struct {
	rules []Rule
}

// New returns a Categorizer over rules, or DefaultRules when rules is nil.
func New(rules []Rule) *Categorizer {
	if rules == nil {
		rules = DefaultRules
	}
	return &Categorizer{rules: rules}
}

// Match returns the category for the given merchant and description.
func (c *Categorizer) Match(merchant, description string) string {
	text := strings.ToLower(merchant + " " + description)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Category
			}
		}
	}
	return Fallback
}

// Apply fills in the category of every transaction that has none.
func (c *Categorizer) Apply(txs []model.Transaction) {
	for i := range txs {
		if strings.TrimSpace(txs[i].Category) != "" {
			continue
		}
		txs[i].Category = c.Match(txs[i].Merchant, txs[i].Description)
	}
}
