package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects both the scope length and the bucket resolution.
type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Granularities lists every supported granularity, shortest first.
var Granularities = []Granularity{Weekly, Monthly, Yearly}

// ParseGranularity accepts the full name or its first letter.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m", "":
		return Monthly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	}
	return "", fmt.Errorf("unknown granularity %q (want weekly, monthly or yearly)", s)
}

// Scope is an inclusive civil-date range.
type Scope struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the scope, both ends included.
func (s Scope) Contains(d time.Time) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

// Days returns the number of calendar days covered by the scope.
func (s Scope) Days() int {
	if s.End.Before(s.Start) {
		return 0
	}
	return int(s.End.Sub(s.Start).Hours()/24) + 1
}

// Bucket aggregates income and expenses for one period inside a scope.
type Bucket struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	DetailLabel  string          `json:"detail_label"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Net          decimal.Decimal `json:"net"`
	BudgetTarget decimal.Decimal `json:"budget_target"`
}

// CategoryTotal is the expense total of one category within a scope.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyCashflow holds income and expense totals for one calendar month.
type MonthlyCashflow struct {
	Month    string          `json:"month"` // YYYY-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// DayCell is one day of a month calendar grid.
type DayCell struct {
	Date       time.Time `json:"date"`
	InMonth    bool      `json:"in_month"`
	EventCount int       `json:"event_count"`
}

// CalendarEvent is a projected charge shown on the subscription calendar.
type CalendarEvent struct {
	Date     string          `json:"date"`
	Merchant string          `json:"merchant"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Source   Source          `json:"source"`
	TxID     string          `json:"tx_id"`
}

// Subscription is a recurring charge, either entered by hand or detected
// from imported transactions.
type Subscription struct {
	Merchant       string          `json:"merchant"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	IntervalDays   int             `json:"interval_days"`
	Amount         decimal.Decimal `json:"amount"`
	MonthlyCost    decimal.Decimal `json:"monthly_cost"`
	NextChargeDate string          `json:"next_charge_date"`
	Confidence     float64         `json:"confidence"`
	Manual         bool            `json:"manual"`
	TxID           string          `json:"tx_id,omitempty"`
	Occurrences    int             `json:"occurrences,omitempty"`
}
