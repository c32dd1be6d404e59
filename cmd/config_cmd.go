package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetbuddy/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	cfg := s.cfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Dataset:       %s\n", s.dataset)
	fmt.Printf("    Granularity:   %s\n", s.granularity)
	fmt.Printf("    Horizon:       %d days\n", cfg.General.HorizonDays)
	fmt.Printf("    Database:      %s\n", s.dbPath)
	if s.dataDir != "" {
		fmt.Printf("    Statements:    %s\n", s.dataDir)
	} else {
		fmt.Println("    Statements:    not configured")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %s\n", cfg.PollInterval())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n\n", err)
	}

	fmt.Printf("  Environment overrides: %s, %s\n", config.EnvDataset, config.EnvDB)
	fmt.Println("  Run `budgetbuddy setup` to reconfigure.")
	return nil
}
