package source

import (
	"errors"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

// Header errors. ParseFile wraps them with the file path.
var (
	ErrEmptyFile        = errors.New("csv file is empty")
	ErrNoDateColumn     = errors.New("no date column found")
	ErrNoMerchantColumn = errors.New("no merchant or description column found")
	ErrNoAmountColumn   = errors.New("no amount column found")
	ErrNoValidRows      = errors.New("no valid transaction rows")
)

// DiscoveredFile is a CSV statement found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // file name without directory
}

// ParseResult holds the output of parsing a single CSV file.
type ParseResult struct {
	File         DiscoveredFile
	Transactions []model.Transaction
	Rows         int // data rows read, valid or not
	ParseErrors  int // rows skipped for a bad date or amount
	Err          error
}

// columns holds the index of each recognized header, -1 when absent.
type columns struct {
	date, merchant, description, amount, credit, category int
}

// Header candidates, matched case-insensitively after trimming.
var (
	dateHeaders        = []string{"date", "transaction date", "posted date"}
	merchantHeaders    = []string{"merchant", "description", "payee", "name"}
	descriptionHeaders = []string{"description", "memo", "details", "notes"}
	amountHeaders      = []string{"amount", "debit", "transaction amount"}
	creditHeaders      = []string{"credit", "deposit"}
	categoryHeaders    = []string{"category"}
)
