package projection

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := ParseDate(s)
	if !ok {
		t.Fatalf("ParseDate(%q) failed", s)
	}
	return d
}

func formatAll(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDate(d)
	}
	return out
}

func subscription(date string, interval int) model.Transaction {
	return model.Transaction{
		ID:           "sub-1",
		Date:         date,
		Merchant:     "Netflix",
		Amount:       50,
		Source:       model.SourceManualSubscription,
		IntervalDays: interval,
	}
}

func TestProject_RecurringExample(t *testing.T) {
	got := formatAll(Project(subscription("2024-01-01", 30), mustDate(t, "2024-04-01")))
	want := []string{"2024-01-01", "2024-01-31", "2024-03-01", "2024-03-31"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_RecurringArithmetic(t *testing.T) {
	anchor := mustDate(t, "2023-11-15")
	for _, interval := range []int{1, 7, 14, 30, 45, 90, 365} {
		for _, span := range []int{0, 1, 29, 30, 31, 200, 370} {
			horizon := anchor.AddDate(0, 0, span)
			got := Project(subscription("2023-11-15", interval), horizon)

			wantLen := span/interval + 1
			if len(got) != wantLen {
				t.Fatalf("interval=%d span=%d: len = %d, want %d", interval, span, len(got), wantLen)
			}
			for n, d := range got {
				want := anchor.AddDate(0, 0, n*interval)
				if !d.Equal(want) {
					t.Fatalf("interval=%d span=%d: date[%d] = %s, want %s",
						interval, span, n, FormatDate(d), FormatDate(want))
				}
			}
		}
	}
}

func TestProject_NextChargeDateIsAnchor(t *testing.T) {
	tx := subscription("2024-01-01", 7)
	tx.NextChargeDate = "2024-02-10"

	got := formatAll(Project(tx, mustDate(t, "2024-02-24")))
	want := []string{"2024-02-10", "2024-02-17", "2024-02-24"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_UnparseableNextChargeIsSingleOccurrence(t *testing.T) {
	tx := subscription("2024-01-01", 30)
	tx.NextChargeDate = "not-a-date"

	if IsRecurring(tx) {
		t.Error("IsRecurring = true, want false for a malformed next_charge_date")
	}
	got := formatAll(Project(tx, mustDate(t, "2024-04-01")))
	if diff := cmp.Diff([]string{"2024-01-01"}, got); diff != "" {
		t.Fatalf("Project mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_BlankNextChargeUsesDate(t *testing.T) {
	tx := subscription("2024-01-01", 10)
	tx.NextChargeDate = "   "

	got := Project(tx, mustDate(t, "2024-01-21"))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestProject_AnchorAfterHorizon(t *testing.T) {
	got := Project(subscription("2025-06-01", 30), mustDate(t, "2025-01-01"))
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestProject_NonRecurring(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		want []string
	}{
		{
			name: "manual",
			tx:   model.Transaction{Date: "2024-05-03", Source: model.SourceManual, Amount: 12},
			want: []string{"2024-05-03"},
		},
		{
			name: "csv with interval is still one-off",
			tx:   model.Transaction{Date: "2024-05-03", Source: model.SourceCSV, IntervalDays: 30},
			want: []string{"2024-05-03"},
		},
		{
			name: "future payment beyond horizon",
			tx:   model.Transaction{Date: "2030-01-01", Source: model.SourceOneTimeFuture},
			want: []string{"2030-01-01"},
		},
		{
			name: "zero interval demotes subscription",
			tx:   subscription("2024-05-03", 0),
			want: []string{"2024-05-03"},
		},
		{
			name: "negative interval demotes subscription",
			tx:   subscription("2024-05-03", -7),
			want: []string{"2024-05-03"},
		},
		{
			name: "surrounding whitespace",
			tx:   model.Transaction{Date: " 2024-05-03 ", Source: model.SourceManual},
			want: []string{"2024-05-03"},
		},
		{
			name: "timestamp truncated to date",
			tx:   model.Transaction{Date: "2024-05-03T23:10:00-05:00", Source: model.SourceManual},
			want: []string{"2024-05-03"},
		},
		{
			name: "unparseable date is dropped",
			tx:   model.Transaction{Date: "03/05/2024", Source: model.SourceManual},
			want: []string{},
		},
		{
			name: "subscription without any date is dropped",
			tx:   subscription("", 30),
			want: []string{},
		},
	}

	horizon := mustDate(t, "2025-01-01")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAll(Project(tt.tx, horizon))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Project mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProject_Deterministic(t *testing.T) {
	tx := subscription("2024-01-01", 13)
	horizon := mustDate(t, "2024-12-31")
	first := formatAll(Project(tx, horizon))
	second := formatAll(Project(tx, horizon))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Project not deterministic:\n%s", diff)
	}
}

func TestIsRecurring(t *testing.T) {
	if !IsRecurring(subscription("2024-01-01", 30)) {
		t.Error("subscription with interval should be recurring")
	}
	if IsRecurring(subscription("bad", 30)) {
		t.Error("subscription without parseable anchor should not be recurring")
	}
	tx := subscription("bad", 30)
	tx.NextChargeDate = "2024-01-01"
	if !IsRecurring(tx) {
		t.Error("next_charge_date alone should be a valid anchor")
	}
}

func TestExpand(t *testing.T) {
	txs := []model.Transaction{
		{ID: "a", Date: "2024-01-20", Merchant: "Employer", Amount: -3000, Source: model.SourceManual, Category: "Salary"},
		{ID: "b", Date: "2024-01-05", Merchant: "Corner Shop", Amount: 12.5, Source: model.SourceCSV},
		{ID: "c", Date: "2024-01-10", Merchant: "Spotify", Amount: -9.99, Source: model.SourceManualSubscription, IntervalDays: 14},
		{ID: "d", Date: "nope", Merchant: "Ghost", Amount: 1, Source: model.SourceManual},
		{ID: "e", Date: "2024-01-02", Merchant: "Broken", Amount: math.NaN(), Source: model.SourceManual, Category: "Misc"},
	}

	occ := Expand(txs, mustDate(t, "2024-01-31"))

	type row struct {
		Date, TxID, Category, Amount string
		Recurring                    bool
	}
	var got []row
	for _, o := range occ {
		got = append(got, row{FormatDate(o.Date), o.TxID, o.Category, o.Amount.StringFixed(2), o.Recurring})
	}
	want := []row{
		{"2024-01-02", "e", "Misc", "0.00", false},
		{"2024-01-05", "b", "Other", "12.50", false},
		{"2024-01-10", "c", "Subscription", "9.99", true},
		{"2024-01-20", "a", "Salary", "-3000.00", false},
		{"2024-01-24", "c", "Subscription", "9.99", true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestAmount_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Amount(model.Transaction{Amount: v}); !got.Equal(decimal.Zero) {
			t.Errorf("Amount(%v) = %s, want 0", v, got)
		}
	}
	if got := Amount(model.Transaction{Amount: 19.99}); got.String() != "19.99" {
		t.Errorf("Amount(19.99) = %s, want 19.99", got)
	}
}

func TestHorizon(t *testing.T) {
	now := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	if got := FormatDate(Horizon(now, 0)); got != "2025-03-06" {
		t.Errorf("Horizon default = %s, want 2025-03-06", got)
	}
	if got := FormatDate(Horizon(now, 30)); got != "2024-03-31" {
		t.Errorf("Horizon(30) = %s, want 2024-03-31", got)
	}
}
