package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "pay", Date: "2024-03-01", Merchant: "Acme Payroll", Category: "Income", Amount: -3000, Source: model.SourceManual},
		{ID: "rent", Date: "2024-03-01", Merchant: "Landlord", Category: "Rent", Amount: 1200, Source: model.SourceManual},
		{ID: "groc", Date: "2024-03-05", Merchant: "Trader Joe's", Category: "Groceries", Amount: 80, Source: model.SourceCSV},
		{ID: "feb", Date: "2024-02-12", Merchant: "Corner Cafe", Category: "Food", Amount: 40, Source: model.SourceCSV},
		{ID: "netflix", Date: "2024-02-15", Merchant: "Netflix", Amount: 15.99, Source: model.SourceManualSubscription,
			IntervalDays: 30, NextChargeDate: "2024-03-15"},
	}
}

// newTestApp returns a loaded app with the sample data and no config file.
func newTestApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(Options{
		DBPath:      filepath.Join(t.TempDir(), "budget.db"),
		Now:         testNow,
		HorizonDays: 60,
	})
	a.needSetup = false

	m, _ := a.Update(DataLoadedMsg{Transactions: sampleTransactions()})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestDataLoadedComputesCurrentMonth(t *testing.T) {
	a := newTestApp(t)

	if !a.loaded {
		t.Fatal("app should be loaded")
	}
	if !a.scope.Start.Equal(day(2024, 3, 1)) || !a.scope.End.Equal(day(2024, 3, 31)) {
		t.Errorf("scope = %v..%v, want March 2024", a.scope.Start, a.scope.End)
	}
	if want := decimal.RequireFromString("1295.99"); !a.result.Expenses.Equal(want) {
		t.Errorf("expenses = %s, want %s", a.result.Expenses, want)
	}
	if want := decimal.NewFromInt(3000); !a.result.Income.Equal(want) {
		t.Errorf("income = %s, want %s", a.result.Income, want)
	}
	if want := decimal.NewFromInt(40); !a.prevExpenses.Equal(want) {
		t.Errorf("previous period expenses = %s, want %s", a.prevExpenses, want)
	}
	if len(a.subs) != 1 || a.subs[0].Merchant != "Netflix" {
		t.Errorf("subs = %+v, want the Netflix subscription", a.subs)
	}
	if !a.calMonth.Equal(day(2024, 3, 1)) || !a.calSel.Equal(day(2024, 3, 10)) {
		t.Errorf("calendar = %v sel %v, want March 2024 sel Mar 10", a.calMonth, a.calSel)
	}
	if len(a.calCells) != 42 {
		t.Errorf("calendar cells = %d, want 42", len(a.calCells))
	}
}

func TestPeriodNavigation(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, "[")
	if !a.scopeSet || !a.scope.Start.Equal(day(2024, 2, 1)) {
		t.Fatalf("after [: scope starts %v (set=%v), want Feb 1", a.scope.Start, a.scopeSet)
	}
	if want := decimal.NewFromInt(40); !a.result.Expenses.Equal(want) {
		t.Errorf("February expenses = %s, want %s", a.result.Expenses, want)
	}

	a = press(t, a, "t")
	if a.scopeSet || !a.scope.Start.Equal(day(2024, 3, 1)) {
		t.Errorf("after t: scope starts %v (set=%v), want Mar 1 following today", a.scope.Start, a.scopeSet)
	}

	a = press(t, a, "w")
	if a.granularity != model.Weekly {
		t.Fatalf("granularity = %s, want weekly", a.granularity)
	}
	if !a.scope.Start.Equal(day(2024, 3, 4)) || !a.scope.End.Equal(day(2024, 3, 10)) {
		t.Errorf("weekly scope = %v..%v, want Mar 4..Mar 10", a.scope.Start, a.scope.End)
	}
	if len(a.result.Buckets) != 1 || a.result.Buckets[0].Key != "2024-03-05" {
		t.Errorf("weekly buckets = %+v, want only 2024-03-05", a.result.Buckets)
	}

	a = press(t, a, "]", "y")
	if !a.scope.Start.Equal(day(2024, 1, 1)) {
		t.Errorf("yearly scope after shifting a week = %v, want Jan 1 2024", a.scope.Start)
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		key  string
		want int
	}{
		{"s", tabSubscriptions},
		{"right", tabCalendar},
		{"g", tabGoals},
		{"x", tabSettings},
		{"right", tabDashboard},
		{"left", tabSettings},
		{"d", tabDashboard},
	}
	for _, tt := range tests {
		a = press(t, a, tt.key)
		if a.activeTab != tt.want {
			t.Errorf("after %q: tab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}
}

func TestCalendarNavigation(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "c")

	a = press(t, a, "]")
	if !a.calMonth.Equal(day(2024, 4, 1)) || !a.calSel.Equal(day(2024, 4, 1)) {
		t.Fatalf("after ]: month %v sel %v, want April 1", a.calMonth, a.calSel)
	}
	if !a.scope.Start.Equal(day(2024, 3, 1)) {
		t.Error("calendar paging should not move the dashboard period")
	}

	a = press(t, a, "h")
	if !a.calMonth.Equal(day(2024, 3, 1)) || !a.calSel.Equal(day(2024, 3, 31)) {
		t.Errorf("after h: month %v sel %v, want March 31", a.calMonth, a.calSel)
	}

	a = press(t, a, "t", "l")
	if !a.calSel.Equal(day(2024, 3, 11)) {
		t.Errorf("after t l: sel %v, want Mar 11", a.calSel)
	}

	a = press(t, a, "j")
	if got := a.calIdx.Count(day(2024, 3, 15)); got != 1 {
		t.Errorf("events on Mar 15 = %d, want 1", got)
	}
	if !a.calSel.Equal(day(2024, 3, 18)) {
		t.Errorf("after j: sel %v, want Mar 18", a.calSel)
	}
}

func TestSubscriptionCursorClamps(t *testing.T) {
	a := newTestApp(t)
	a = press(t, a, "s", "j", "j", "k", "k", "k")
	if a.subState.cursor != 0 {
		t.Errorf("cursor = %d, want 0", a.subState.cursor)
	}
}

func TestGoalsSavedRecomputes(t *testing.T) {
	a := newTestApp(t)
	if a.result.BudgetUsage.Available {
		t.Fatal("budget usage should be unavailable without goals")
	}

	goals := model.Goals{MonthlyBudget: decimal.NewFromInt(2000), SavingsGoal: decimal.NewFromInt(6000)}
	m, _ := a.Update(goalsSavedMsg{Goals: goals})
	a = m.(App)

	if !a.goalsState.saved {
		t.Error("saved flag should be set")
	}
	if !a.result.BudgetUsage.Available {
		t.Error("budget usage should be available after saving a budget")
	}
	if a.result.Forecast.Status == model.ForecastNotSet {
		t.Error("forecast should run once both goals are set")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	a = m.(App)

	titles := []string{"Categories", "Subscriptions", "March 2024", "Monthly Budget", "Settings"}
	for tab, title := range titles {
		a.activeTab = tab
		out := a.View()
		if !strings.Contains(out, title) {
			t.Errorf("tab %d view missing %q", tab, title)
		}
	}

	a.width = 60
	if out := a.View(); !strings.Contains(out, "Terminal too narrow") {
		t.Error("narrow terminal should show the width warning")
	}
}

func TestDashboardChartShowsEmptyDays(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	a = press(t, m.(App), "w")

	out := a.View()
	for _, label := range []string{"Tue", "Thu", "Sun"} {
		if !strings.Contains(out, label) {
			t.Errorf("weekly chart missing %q bar", label)
		}
	}
}

func TestLoadDataReadsStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	st, err := store.Open(dbPath, "home")
	if err != nil {
		t.Fatal(err)
	}
	for _, tx := range sampleTransactions() {
		if err := st.AddTransaction(tx); err != nil {
			t.Fatal(err)
		}
	}
	goals := model.Goals{MonthlyBudget: decimal.NewFromInt(1500)}
	if err := st.SaveGoals(goals); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := loadData(Options{DBPath: dbPath, Dataset: "home"}, nil)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if len(data.txs) != len(sampleTransactions()) {
		t.Errorf("loaded %d transactions, want %d", len(data.txs), len(sampleTransactions()))
	}
	if !data.goals.MonthlyBudget.Equal(goals.MonthlyBudget) {
		t.Errorf("budget = %s, want %s", data.goals.MonthlyBudget, goals.MonthlyBudget)
	}
	if data.imported != nil {
		t.Error("no data dir means no import result")
	}

	other, err := loadData(Options{DBPath: dbPath, Dataset: "work"}, nil)
	if err != nil {
		t.Fatalf("loadData(work): %v", err)
	}
	if len(other.txs) != 0 {
		t.Errorf("work dataset has %d transactions, want 0", len(other.txs))
	}
}

func TestValidateMoney(t *testing.T) {
	valid := []string{"", " ", "2000", "$1,250.50", "0"}
	for _, s := range valid {
		if err := validateMoney(s); err != nil {
			t.Errorf("validateMoney(%q) = %v, want nil", s, err)
		}
	}
	invalid := []string{"abc", "-5", "12..3"}
	for _, s := range invalid {
		if err := validateMoney(s); err == nil {
			t.Errorf("validateMoney(%q) = nil, want error", s)
		}
	}

	if got := parseMoney("$1,250.505"); !got.Equal(decimal.RequireFromString("1250.51")) {
		t.Errorf("parseMoney = %s, want 1250.51", got)
	}
	if got := parseMoney(""); !got.IsZero() {
		t.Errorf("parseMoney(empty) = %s, want 0", got)
	}
	if got := moneyInput(decimal.Zero); got != "" {
		t.Errorf("moneyInput(0) = %q, want empty", got)
	}
}
