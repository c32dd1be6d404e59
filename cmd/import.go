package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import CSV bank statements",
	Long: "Import every *.csv file under dir (default: --data-dir or the configured\n" +
		"data_dir). Files are re-parsed only when their size or modification time\n" +
		"changed since the last import; rows of deleted files are dropped.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&flagImportDryRun, "dry-run", "n", false, "Parse and report without saving")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}

	dir := s.dataDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no statements directory: pass one or set general.data_dir")
	}

	if flagImportDryRun {
		return importDryRun(dir)
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ir, err := importStatements(st, dir)
	if err != nil {
		return err
	}
	count, err := st.TransactionCount()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Import into " + s.dataset,
		Headers: []string{"", "Count"},
		Rows: [][]string{
			{"Statement files", cli.FormatNumber(int64(ir.TotalFiles))},
			{"Re-parsed", cli.FormatNumber(int64(ir.Reparsed))},
			{"Unchanged", cli.FormatNumber(int64(ir.Unchanged))},
			{"Removed", cli.FormatNumber(int64(ir.Removed))},
			{"New rows", cli.FormatNumber(int64(len(ir.Transactions)))},
			{"Skipped rows", cli.FormatNumber(int64(ir.ParseErrors))},
			{"Failed files", cli.FormatNumber(int64(ir.FileErrors))},
			{"---"},
			{"Transactions in dataset", cli.FormatNumber(int64(count))},
		},
	}))
	return nil
}

func importDryRun(dir string) error {
	progressFn := func(current, total int) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}
	res, err := pipeline.Load(dir, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && res.TotalFiles > 0 {
		fmt.Fprintln(os.Stderr)
	}

	for _, e := range res.Errors {
		fmt.Printf("  ! %v\n", e)
	}
	fmt.Printf("\n  %d of %d files parsed, %s rows, %d rows skipped (nothing saved)\n",
		res.ParsedFiles, res.TotalFiles, cli.FormatNumber(int64(len(res.Transactions))), res.ParseErrors)
	return nil
}
