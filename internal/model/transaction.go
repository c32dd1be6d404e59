package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies how a transaction entered the dataset.
type Source string

const (
	SourceManual             Source = "manual"
	SourceManualSubscription Source = "manual_subscription"
	SourceOneTimeFuture      Source = "one_time_future_payment"
	SourceCSV                Source = "csv"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceManualSubscription, SourceOneTimeFuture, SourceCSV:
		return true
	}
	return false
}

// Transaction is a single record as stored. Amount keeps the raw sign
// convention: negative is income, positive is expense.
//
// Date and NextChargeDate are kept as the strings the record was entered
// with; the projection layer decides whether they parse.
type Transaction struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Merchant       string  `json:"merchant"`
	Description    string  `json:"description,omitempty"`
	Category       string  `json:"category,omitempty"`
	Amount         float64 `json:"amount"`
	Source         Source  `json:"source"`
	IntervalDays   int     `json:"interval_days,omitempty"`
	NextChargeDate string  `json:"next_charge_date,omitempty"`

	// FilePath is set for rows imported from a CSV file.
	FilePath string `json:"-"`
}

// Occurrence is one concrete dated instance of a transaction.
type Occurrence struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Merchant  string          `json:"merchant"`
	TxID      string          `json:"tx_id"`
	Recurring bool            `json:"recurring"`
}
