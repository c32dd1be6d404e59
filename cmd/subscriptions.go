package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "Recurring charges, entered by hand or detected from statements",
	RunE:    runSubscriptions,
}

var subscriptionsTrackCmd = &cobra.Command{
	Use:   "track <merchant>",
	Short: "Turn a detected subscription into a tracked one",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriptionsTrack,
}

func init() {
	subscriptionsCmd.AddCommand(subscriptionsTrackCmd)
	rootCmd.AddCommand(subscriptionsCmd)
}

func runSubscriptions(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	d, err := loadData(s)
	if err != nil {
		return err
	}

	subs := subscriptions.List(d.txs)

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBSCRIPTIONS"))
	fmt.Println()

	if len(subs) == 0 {
		fmt.Println("  No subscriptions found.")
		fmt.Println("  Add one with: budgetbuddy add subscription --merchant NAME --amount N --frequency monthly")
		return nil
	}

	rows := make([][]string, 0, len(subs)+2)
	for _, sub := range subs {
		rows = append(rows, []string{
			sub.Merchant,
			subscriptions.FrequencyName(sub.IntervalDays),
			cli.FormatMoney(sub.Amount),
			cli.FormatMoney(sub.MonthlyCost),
			sub.NextChargeDate,
			subscriptionOrigin(sub),
		})
	}
	rows = append(rows, []string{"---"},
		[]string{"Total", "", "", cli.FormatMoney(subscriptions.MonthlyTotal(subs)) + "/mo", "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Merchant", "Every", "Amount", "Monthly", "Next", "Source"},
		Rows:    rows,
	}))
	return nil
}

func subscriptionOrigin(sub model.Subscription) string {
	if sub.Manual {
		return "manual " + shortID(sub.TxID)
	}
	return fmt.Sprintf("detected %d%%", int(sub.Confidence*100+0.5))
}

// shortID abbreviates a UUID for display; remove accepts the prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runSubscriptionsTrack(_ *cobra.Command, args []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	d, err := loadData(s)
	if err != nil {
		return err
	}

	want := strings.ToLower(strings.TrimSpace(args[0]))
	var found *model.Subscription
	for _, sub := range subscriptions.List(d.txs) {
		if sub.Manual || strings.ToLower(sub.Merchant) != want {
			continue
		}
		found = &sub
		break
	}
	if found == nil {
		return fmt.Errorf("no detected subscription for %q", args[0])
	}
	if found.NextChargeDate == "" {
		return errors.New("detected subscription has no next charge date")
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tx := subscriptions.ToTransaction(*found, uuid.NewString())
	if err := st.AddTransaction(tx); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	log.Debug().Str("id", tx.ID).Str("merchant", tx.Merchant).Msg("subscription tracked")

	fmt.Printf("  Tracking %s: %s %s, next charge %s\n",
		found.Merchant, cli.FormatMoney(found.Amount), subscriptions.FrequencyName(found.IntervalDays), found.NextChargeDate)
	return nil
}
