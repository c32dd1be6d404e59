package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// entry holds the add flags shared by every kind of record.
type entry struct {
	date        string
	merchant    string
	description string
	category    string
	amount      string
	income      bool
	frequency   string
	next        string
}

var flagAdd entry

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction, subscription or planned payment by hand",
}

var addManualCmd = &cobra.Command{
	Use:     "manual",
	Aliases: []string{"tx"},
	Short:   "Add a one-off expense or income",
	Example: "  budgetbuddy add manual --merchant Landlord --amount 1200 --category Rent\n" +
		"  budgetbuddy add manual --merchant Employer --amount 3000 --income",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAdd(newManualTx)
	},
}

var addSubscriptionCmd = &cobra.Command{
	Use:     "subscription",
	Aliases: []string{"sub"},
	Short:   "Add a recurring charge",
	Example: "  budgetbuddy add subscription --merchant Netflix --amount 15.99 --frequency monthly --date 2024-03-15",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAdd(newSubscriptionTx)
	},
}

var addPlannedCmd = &cobra.Command{
	Use:   "planned",
	Short: "Add a one-time payment due on a future date",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAdd(newPlannedTx)
	},
}

func init() {
	for _, c := range []*cobra.Command{addManualCmd, addSubscriptionCmd, addPlannedCmd} {
		c.Flags().StringVar(&flagAdd.date, "on", "", "Date as YYYY-MM-DD (default: today)")
		c.Flags().StringVar(&flagAdd.merchant, "merchant", "", "Merchant or payee")
		c.Flags().StringVar(&flagAdd.description, "description", "", "Free-form note")
		c.Flags().StringVar(&flagAdd.category, "category", "", "Category (default depends on the kind)")
		c.Flags().StringVar(&flagAdd.amount, "amount", "", "Amount in dollars, e.g. 15.99")
		_ = c.MarkFlagRequired("merchant")
		_ = c.MarkFlagRequired("amount")
	}
	addManualCmd.Flags().BoolVar(&flagAdd.income, "income", false, "Record money coming in")
	addSubscriptionCmd.Flags().StringVar(&flagAdd.frequency, "frequency", "monthly",
		"weekly, biweekly, monthly, quarterly, yearly or a number of days")
	addSubscriptionCmd.Flags().StringVar(&flagAdd.next, "next", "", "Next charge date (default: --on plus one interval)")

	addCmd.AddCommand(addManualCmd, addSubscriptionCmd, addPlannedCmd)
	rootCmd.AddCommand(addCmd)
}

type txBuilder func(e entry, today time.Time) (model.Transaction, error)

func runAdd(build txBuilder) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	tx, err := build(flagAdd, projection.Day(s.now))
	if err != nil {
		return err
	}
	tx.ID = uuid.NewString()

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.AddTransaction(tx); err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}
	log.Debug().Str("id", tx.ID).Str("source", string(tx.Source)).Msg("transaction added")

	amount := projection.Amount(tx)
	kind := "expense"
	switch {
	case tx.Source == model.SourceManualSubscription:
		kind = subscriptions.FrequencyName(tx.IntervalDays) + " subscription"
	case tx.Source == model.SourceOneTimeFuture:
		kind = "planned payment"
	case amount.IsNegative():
		kind = "income"
		amount = amount.Neg()
	}
	fmt.Printf("  Added %s: %s %s on %s (id %s)\n", kind, tx.Merchant, cli.FormatMoney(amount), tx.Date, shortID(tx.ID))
	if tx.NextChargeDate != "" {
		fmt.Printf("  Next charge: %s\n", tx.NextChargeDate)
	}
	return nil
}

// parseAmount reads a positive dollar amount, allowing a leading $ and
// thousands separators.
func parseAmount(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %q must be greater than zero", s)
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

// entryDate parses the --on flag, defaulting to today.
func entryDate(s string, today time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return today, nil
	}
	d, ok := projection.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func baseTx(e entry, today time.Time) (model.Transaction, time.Time, error) {
	merchant := strings.TrimSpace(e.merchant)
	if merchant == "" {
		return model.Transaction{}, time.Time{}, errors.New("merchant is required")
	}
	amount, err := parseAmount(e.amount)
	if err != nil {
		return model.Transaction{}, time.Time{}, err
	}
	date, err := entryDate(e.date, today)
	if err != nil {
		return model.Transaction{}, time.Time{}, err
	}
	return model.Transaction{
		Date:        projection.FormatDate(date),
		Merchant:    merchant,
		Description: strings.TrimSpace(e.description),
		Category:    strings.TrimSpace(e.category),
		Amount:      amount,
	}, date, nil
}

func newManualTx(e entry, today time.Time) (model.Transaction, error) {
	tx, _, err := baseTx(e, today)
	if err != nil {
		return tx, err
	}
	tx.Source = model.SourceManual
	if e.income {
		tx.Amount = -tx.Amount
		if tx.Category == "" {
			tx.Category = "Income"
		}
	}
	return tx, nil
}

func newSubscriptionTx(e entry, today time.Time) (model.Transaction, error) {
	tx, date, err := baseTx(e, today)
	if err != nil {
		return tx, err
	}
	interval, err := subscriptions.ParseFrequency(e.frequency)
	if err != nil {
		return tx, err
	}

	next := date.AddDate(0, 0, interval)
	if strings.TrimSpace(e.next) != "" {
		d, ok := projection.ParseDate(e.next)
		if !ok {
			return tx, fmt.Errorf("next charge date %q: want YYYY-MM-DD", e.next)
		}
		next = d
	}

	tx.Source = model.SourceManualSubscription
	tx.IntervalDays = interval
	tx.NextChargeDate = projection.FormatDate(next)
	if tx.Category == "" {
		tx.Category = projection.SubscriptionCategory
	}
	if tx.Description == "" {
		tx.Description = tx.Merchant + " subscription"
	}
	return tx, nil
}

func newPlannedTx(e entry, today time.Time) (model.Transaction, error) {
	tx, date, err := baseTx(e, today)
	if err != nil {
		return tx, err
	}
	if date.Before(today) {
		return tx, fmt.Errorf("planned payment date %s is in the past", tx.Date)
	}
	tx.Source = model.SourceOneTimeFuture
	if tx.Category == "" {
		tx.Category = "Planned Payment"
	}
	if tx.Description == "" {
		tx.Description = "One-time payment: " + tx.Merchant
	}
	return tx, nil
}
