package subscriptions

import (
	"testing"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func csvTx(date, merchant string, amount float64) model.Transaction {
	return model.Transaction{Date: date, Merchant: merchant, Amount: amount, Source: model.SourceCSV}
}

func TestDetect_Monthly(t *testing.T) {
	txs := []model.Transaction{
		csvTx("2024-01-05", "NETFLIX.COM 1234", 15.49),
		csvTx("2024-02-04", "Netflix.com", 15.49),
		csvTx("2024-03-05", "NETFLIX.COM 9876", 15.49),
		csvTx("2024-03-06", "Corner Store", 4.20),
		csvTx("2024-02-01", "Employer", -3000),
		csvTx("2024-03-01", "Employer", -3000),
		csvTx("2024-04-01", "Employer", -3000),
	}

	got := Detect(txs, DefaultDetectOptions)
	if len(got) != 1 {
		t.Fatalf("detected %d subscriptions, want 1: %+v", len(got), got)
	}
	s := got[0]
	if s.Merchant != "NETFLIX.COM 1234" {
		t.Errorf("Merchant = %q", s.Merchant)
	}
	// Gaps are 30 and 30 days (2024 is a leap year).
	if s.IntervalDays != 30 {
		t.Errorf("IntervalDays = %d, want 30", s.IntervalDays)
	}
	if s.NextChargeDate != "2024-04-04" {
		t.Errorf("NextChargeDate = %s, want 2024-04-04", s.NextChargeDate)
	}
	if s.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", s.Confidence)
	}
	if s.MonthlyCost.StringFixed(2) != "15.49" {
		t.Errorf("MonthlyCost = %s, want 15.49", s.MonthlyCost.StringFixed(2))
	}
	if s.Occurrences != 3 {
		t.Errorf("Occurrences = %d, want 3", s.Occurrences)
	}
}

func TestDetect_WeeklyWithJitter(t *testing.T) {
	txs := []model.Transaction{
		csvTx("2024-05-01", "Farmers Market", 20),
		csvTx("2024-05-08", "Farmers Market", 25),
		csvTx("2024-05-16", "Farmers Market", 30),
		csvTx("2024-05-22", "Farmers Market", 25),
	}
	got := Detect(txs, DefaultDetectOptions)
	if len(got) != 1 {
		t.Fatalf("detected %d, want 1", len(got))
	}
	s := got[0]
	// Gaps 7, 8, 6: median 7, population stddev ~0.816.
	if s.IntervalDays != 7 {
		t.Errorf("IntervalDays = %d, want 7", s.IntervalDays)
	}
	if s.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", s.Confidence)
	}
	if s.Amount.StringFixed(2) != "25.00" {
		t.Errorf("Amount = %s, want 25.00", s.Amount.StringFixed(2))
	}
	if s.MonthlyCost.StringFixed(2) != "107.14" {
		t.Errorf("MonthlyCost = %s, want 107.14", s.MonthlyCost.StringFixed(2))
	}
}

func TestDetect_Rejects(t *testing.T) {
	tests := []struct {
		name string
		txs  []model.Transaction
	}{
		{"too few charges", []model.Transaction{
			csvTx("2024-01-01", "Hulu", 8), csvTx("2024-01-31", "Hulu", 8),
		}},
		{"irregular cadence", []model.Transaction{
			csvTx("2024-01-01", "Hardware", 8), csvTx("2024-01-21", "Hardware", 8), csvTx("2024-02-10", "Hardware", 8),
		}},
		{"manual subscriptions are not re-detected", []model.Transaction{
			{Date: "2024-01-01", Merchant: "Gym", Amount: 30, Source: model.SourceManualSubscription, IntervalDays: 7},
			{Date: "2024-01-08", Merchant: "Gym", Amount: 30, Source: model.SourceManualSubscription, IntervalDays: 7},
			{Date: "2024-01-15", Merchant: "Gym", Amount: 30, Source: model.SourceManualSubscription, IntervalDays: 7},
		}},
		{"unparseable dates", []model.Transaction{
			csvTx("x", "Hulu", 8), csvTx("y", "Hulu", 8), csvTx("z", "Hulu", 8),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.txs, DefaultDetectOptions); len(got) != 0 {
				t.Fatalf("detected %+v, want none", got)
			}
		})
	}
}

func TestDetect_FuzzyMerchantGrouping(t *testing.T) {
	txs := []model.Transaction{
		csvTx("2024-01-10", "Spotify USA", 9.99),
		csvTx("2024-02-09", "Spotfy USA", 9.99),
		csvTx("2024-03-10", "Spotify USA", 9.99),
	}
	got := Detect(txs, DefaultDetectOptions)
	if len(got) != 1 {
		t.Fatalf("detected %d, want 1", len(got))
	}
	if got[0].Merchant != "Spotify USA" {
		t.Errorf("Merchant = %q, want most frequent spelling", got[0].Merchant)
	}

	exact := DefaultDetectOptions
	exact.MaxNameDistance = 0
	if got := Detect(txs, exact); len(got) != 0 {
		t.Errorf("exact grouping detected %d, want 0", len(got))
	}
}

func TestDetect_SortedByMonthlyCost(t *testing.T) {
	var txs []model.Transaction
	for _, d := range []string{"2024-01-01", "2024-01-31", "2024-03-01"} {
		txs = append(txs, csvTx(d, "Cheap Cloud", 2), csvTx(d, "Big Insurance", 120))
	}
	got := Detect(txs, DefaultDetectOptions)
	if len(got) != 2 || got[0].Merchant != "Big Insurance" {
		t.Fatalf("order = %+v", got)
	}
}
