package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a transaction or subscription by id or id prefix",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	txs, err := st.ListTransactions()
	if err != nil {
		return err
	}

	prefix := strings.TrimSpace(args[0])
	var matches []string
	for _, tx := range txs {
		if tx.ID == prefix {
			matches = []string{tx.ID}
			break
		}
		if strings.HasPrefix(tx.ID, prefix) {
			matches = append(matches, tx.ID)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("no transaction with id %q in dataset %q", prefix, s.dataset)
	case 1:
	default:
		return fmt.Errorf("id %q is ambiguous: %d transactions match", prefix, len(matches))
	}

	if _, err := st.DeleteTransaction(matches[0]); err != nil {
		return fmt.Errorf("deleting %s: %w", matches[0], err)
	}
	fmt.Printf("  Removed %s\n", matches[0])
	return nil
}
