package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func openTemp(t *testing.T, dataset string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "budget.db"), dataset)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_DefaultDataset(t *testing.T) {
	s := openTemp(t, "  ")
	if s.Dataset() != DefaultDataset {
		t.Errorf("Dataset() = %q, want %q", s.Dataset(), DefaultDataset)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "budget.db")
	s, err := Open(path, "a")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.AddTransaction(model.Transaction{ID: "1", Date: "2024-03-01", Source: model.SourceManual}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path, "a")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	n, err := s.TransactionCount()
	if err != nil || n != 1 {
		t.Errorf("TransactionCount() = %d, %v, want 1", n, err)
	}
}

func TestAddAndListTransactions(t *testing.T) {
	s := openTemp(t, "default")

	txs := []model.Transaction{
		{ID: "b", Date: "2024-03-05", Merchant: "Cafe", Category: "Food", Amount: 4.5, Source: model.SourceManual},
		{ID: "a", Date: "2024-03-01", Merchant: "Netflix", Amount: 15.99, Source: model.SourceManualSubscription, IntervalDays: 30, NextChargeDate: "2024-04-01"},
	}
	for _, tx := range txs {
		if err := s.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction(%s): %v", tx.ID, err)
		}
	}

	got, err := s.ListTransactions()
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	want := []model.Transaction{txs[1], txs[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListTransactions mismatch (-want +got):\n%s", diff)
	}
}

func TestAddTransaction_RequiresID(t *testing.T) {
	s := openTemp(t, "default")
	if err := s.AddTransaction(model.Transaction{Date: "2024-03-01"}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestDatasetsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	a, err := Open(path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()
	b, err := Open(path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = b.Close() }()

	if err := a.AddTransaction(model.Transaction{ID: "x", Date: "2024-03-01", Source: model.SourceManual}); err != nil {
		t.Fatal(err)
	}
	if n, _ := b.TransactionCount(); n != 0 {
		t.Errorf("dataset b count = %d, want 0", n)
	}
	if ok, _ := b.DeleteTransaction("x"); ok {
		t.Error("dataset b deleted a row of dataset a")
	}
	if n, _ := a.TransactionCount(); n != 1 {
		t.Errorf("dataset a count = %d, want 1", n)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := openTemp(t, "default")
	if err := s.AddTransaction(model.Transaction{ID: "x", Date: "2024-03-01", Source: model.SourceManual}); err != nil {
		t.Fatal(err)
	}

	ok, err := s.DeleteTransaction("x")
	if err != nil || !ok {
		t.Fatalf("DeleteTransaction = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.DeleteTransaction("x")
	if err != nil || ok {
		t.Errorf("second DeleteTransaction = %v, %v, want false, nil", ok, err)
	}
}

func TestReplaceFileTransactions(t *testing.T) {
	s := openTemp(t, "default")
	const file = "/tmp/statement.csv"

	first := []model.Transaction{
		{ID: "1", Date: "2024-03-01", Merchant: "A", Amount: 1, Source: model.SourceCSV},
		{ID: "2", Date: "2024-03-02", Merchant: "B", Amount: 2, Source: model.SourceCSV},
	}
	if err := s.ReplaceFileTransactions(file, first, 100, 10); err != nil {
		t.Fatalf("ReplaceFileTransactions: %v", err)
	}
	if err := s.AddTransaction(model.Transaction{ID: "m", Date: "2024-03-03", Source: model.SourceManual}); err != nil {
		t.Fatal(err)
	}

	second := []model.Transaction{
		{ID: "3", Date: "2024-03-04", Merchant: "C", Amount: 3, Source: model.SourceCSV},
	}
	if err := s.ReplaceFileTransactions(file, second, 200, 20); err != nil {
		t.Fatalf("ReplaceFileTransactions: %v", err)
	}

	got, err := s.ListTransactions()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, tx := range got {
		ids = append(ids, tx.ID)
	}
	if diff := cmp.Diff([]string{"m", "3"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if got[1].FilePath != file {
		t.Errorf("FilePath = %q, want %q", got[1].FilePath, file)
	}

	tracked, err := s.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if tracked[file] != (FileInfo{MtimeNs: 200, SizeBytes: 20}) {
		t.Errorf("tracked[%s] = %+v", file, tracked[file])
	}

	if err := s.ForgetFile(file); err != nil {
		t.Fatalf("ForgetFile: %v", err)
	}
	if n, _ := s.TransactionCount(); n != 1 {
		t.Errorf("TransactionCount after ForgetFile = %d, want 1", n)
	}
	tracked, _ = s.GetTrackedFiles()
	if len(tracked) != 0 {
		t.Errorf("tracked = %v, want empty", tracked)
	}
}

func TestGoals(t *testing.T) {
	s := openTemp(t, "default")

	g, err := s.GetGoals()
	if err != nil {
		t.Fatalf("GetGoals: %v", err)
	}
	if !g.MonthlyBudget.IsZero() || !g.SavingsGoal.IsZero() {
		t.Errorf("unset goals = %+v, want zero", g)
	}

	want := model.Goals{
		MonthlyBudget: decimal.RequireFromString("2000.50"),
		SavingsGoal:   decimal.NewFromInt(10000),
	}
	if err := s.SaveGoals(want); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	got, err := s.GetGoals()
	if err != nil {
		t.Fatal(err)
	}
	if !got.MonthlyBudget.Equal(want.MonthlyBudget) || !got.SavingsGoal.Equal(want.SavingsGoal) {
		t.Errorf("GetGoals() = %+v, want %+v", got, want)
	}
}
