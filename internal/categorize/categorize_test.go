package categorize

import (
	"testing"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func TestMatch(t *testing.T) {
	c := New(nil)
	tests := []struct {
		merchant, description, want string
	}{
		{"UBER EATS 1234", "", "Food"},
		{"Uber Trip", "", "Transport"},
		{"Shell Gas Station", "", "Transport"},
		{"City Gas & Power", "", "Utilities"},
		{"Trader Joe's #552", "", "Groceries"},
		{"ACME Property", "March rent", "Rent"},
		{"NETFLIX.COM", "", "Entertainment"},
		{"AMZN Mktp", "amazon order", "Shopping"},
		{"Blue Bottle Cafe", "", "Food"},
		{"Mystery Vendor", "", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			if got := c.Match(tt.merchant, tt.description); got != tt.want {
				t.Fatalf("Match(%q, %q) = %q, want %q", tt.merchant, tt.description, got, tt.want)
			}
		})
	}
}

func TestApply_KeepsExisting(t *testing.T) {
	txs := []model.Transaction{
		{Merchant: "Spotify", Category: "Music"},
		{Merchant: "Spotify"},
		{Merchant: "Corner Store", Category: "  "},
	}
	New(nil).Apply(txs)

	want := []string{"Music", "Entertainment", "Other"}
	for i, tx := range txs {
		if tx.Category != want[i] {
			t.Errorf("txs[%d].Category = %q, want %q", i, tx.Category, want[i])
		}
	}
}

func TestNew_CustomRules(t *testing.T) {
	c := New([]Rule{{Category: "Pets", Keywords: []string{"petco"}}})
	if got := c.Match("PETCO 88", ""); got != "Pets" {
		t.Errorf("Match = %q, want Pets", got)
	}
	if got := c.Match("Netflix", ""); got != Fallback {
		t.Errorf("Match = %q, want %q", got, Fallback)
	}
}
