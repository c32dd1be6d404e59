// Package cmd implements the budgetbuddy CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/config"
	"github.com/theirongolddev/budgetbuddy/internal/logger"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
	"github.com/theirongolddev/budgetbuddy/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagDataset     string
	flagGranularity string
	flagDate        string
	flagDataDir     string
	flagDB          string
	flagQuiet       bool
	flagVerbose     bool
)

// log is the CLI logger, built once flags are parsed.
var log = logger.Nop()

var rootCmd = &cobra.Command{
	Use:   "budgetbuddy",
	Short: "Personal budget dashboard",
	Long:  "Track spending, subscriptions and savings goals from your bank statements.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log = logger.New(os.Stderr, flagVerbose)
		if flagQuiet && !flagVerbose {
			log = log.Level(zerolog.WarnLevel)
		}
	},
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "Dataset to read and write (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagGranularity, "granularity", "g", "", "Period length: weekly, monthly or yearly")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Treat this day (YYYY-MM-DD) as today")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory of CSV statements to import")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Budget database path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

// settings is the effective configuration after flags override the file.
type settings struct {
	cfg         config.Config
	dataset     string
	dbPath      string
	dataDir     string
	granularity model.Granularity
	now         time.Time
}

func resolveSettings() (settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		cfg:     cfg,
		dataset: cfg.General.Dataset,
		dbPath:  cfg.General.DBPath,
		dataDir: cfg.General.DataDir,
		now:     time.Now(),
	}
	if flagDataset != "" {
		s.dataset = flagDataset
	}
	if s.dataset == "" {
		s.dataset = store.DefaultDataset
	}
	if flagDB != "" {
		s.dbPath = flagDB
	}
	if s.dbPath == "" {
		s.dbPath = pipeline.DBPath()
	}
	if flagDataDir != "" {
		s.dataDir = flagDataDir
	}

	g := cfg.General.Granularity
	if flagGranularity != "" {
		g = flagGranularity
	}
	if s.granularity, err = model.ParseGranularity(g); err != nil {
		return settings{}, err
	}

	if flagDate != "" {
		d, ok := projection.ParseDate(flagDate)
		if !ok {
			return settings{}, fmt.Errorf("--date %q: want YYYY-MM-DD", flagDate)
		}
		s.now = d
	}

	log.Debug().
		Str("dataset", s.dataset).
		Str("db", s.dbPath).
		Str("data_dir", s.dataDir).
		Str("granularity", string(s.granularity)).
		Msg("settings resolved")
	return s, nil
}

// openStore opens the dataset named by the effective settings.
func (s settings) openStore() (*store.Store, error) {
	st, err := store.Open(s.dbPath, s.dataset)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.dbPath, err)
	}
	return st, nil
}

// dataset is everything a report command needs.
type dataset struct {
	txs      []model.Transaction
	goals    model.Goals
	imported *pipeline.ImportResult
}

// loadData is the shared data loading path used by all report commands.
// Statements in the data directory are imported first when one is set.
func loadData(s settings) (*dataset, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	var d dataset
	if s.dataDir != "" {
		d.imported, err = importStatements(st, s.dataDir)
		if err != nil {
			return nil, err
		}
	}

	if d.txs, err = st.ListTransactions(); err != nil {
		return nil, err
	}
	if d.goals, err = st.GetGoals(); err != nil {
		return nil, err
	}
	return &d, nil
}

// importStatements runs the incremental CSV import with progress on stderr.
func importStatements(st *store.Store, dir string) (*pipeline.ImportResult, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("statements directory %s not found", dir)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning statements...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	ir, err := pipeline.LoadWithStore(dir, st, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && ir.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  %d files: %d reparsed, %d unchanged, %d removed    \n",
			ir.TotalFiles, ir.Reparsed, ir.Unchanged, ir.Removed)
	}
	for _, e := range ir.Errors {
		log.Warn().Err(e).Msg("statement skipped")
	}
	if ir.ParseErrors > 0 {
		log.Warn().Int("rows", ir.ParseErrors).Msg("rows with an unreadable date or amount were skipped")
	}
	return ir, nil
}

// analyze runs the aggregation pipeline for the period containing now.
func (s settings) analyze(d *dataset) pipeline.Result {
	return pipeline.Analyze(s.input(d, nil))
}

func (s settings) input(d *dataset, scope *model.Scope) pipeline.Input {
	return pipeline.Input{
		Transactions: d.txs,
		Goals:        d.goals,
		Granularity:  s.granularity,
		Scope:        scope,
		Now:          s.now,
		HorizonDays:  s.cfg.General.HorizonDays,
	}
}

// errNoData is returned by report commands on an empty dataset.
var errNoData = errors.New("no transactions yet: run `budgetbuddy import <dir>` or `budgetbuddy add`")

func requireData(s settings, d *dataset) error {
	if len(d.txs) == 0 {
		return fmt.Errorf("dataset %q: %w", s.dataset, errNoData)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
