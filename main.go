package main

import (
	"github.com/theirongolddev/budgetbuddy/cmd"

	"github.com/shopspring/decimal"
)

func main() {
	// Amounts in API responses and state files are JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
	cmd.Execute()
}
