package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func TestMoneyLabel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "$0.00"},
		{0.5, "$0.50"},
		{40, "$40"},
		{1000, "$1K"},
		{1500, "$1.5K"},
		{2e6, "$2M"},
	}
	for _, tt := range tests {
		if got := moneyLabel(tt.v); got != tt.want {
			t.Errorf("moneyLabel(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{50, 10},
		{120, 20},
		{400, 50},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestShortBucketLabel(t *testing.T) {
	tests := map[string]string{
		"March week 2": "W2",
		"Mon":          "Mon",
		"January":      "Jan",
	}
	for in, want := range tests {
		if got := shortBucketLabel(in); got != want {
			t.Errorf("shortBucketLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBucketChartHasAxisAndLabels(t *testing.T) {
	buckets := []model.Bucket{
		{Label: "March week 1", Expenses: decimal.NewFromInt(120)},
		{Label: "March week 2", Expenses: decimal.NewFromInt(60)},
		{Label: "March week 3", Expenses: decimal.Zero},
	}
	out := BucketChart(buckets, lipgloss.Color("#fff"), 60, 8)
	if !strings.Contains(out, "$0") {
		t.Error("chart missing zero axis label")
	}
	if !strings.Contains(out, "W1") {
		t.Error("chart missing bucket label")
	}
}

func TestHBarClampsFill(t *testing.T) {
	out := HBar("Groceries", 8, 500, 100, 10, "$500", lipgloss.Color("#fff"))
	if strings.Count(out, "█") != 10 {
		t.Errorf("bar over max should fill all 10 cells: %q", out)
	}
	if !strings.Contains(out, "Groceri…") {
		t.Errorf("long label should be truncated: %q", out)
	}

	empty := HBar("Rent", 8, 0, 0, 10, "$0", lipgloss.Color("#fff"))
	if strings.Contains(empty, "█") {
		t.Errorf("zero max should render an empty bar: %q", empty)
	}
}
