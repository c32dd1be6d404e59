package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetbuddy/internal/tui"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIRefresh bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUIRefresh, "watch", false, "Reload the dataset on the daemon poll interval")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		DBPath:      s.dbPath,
		Dataset:     s.dataset,
		DataDir:     s.dataDir,
		Granularity: s.granularity,
		HorizonDays: s.cfg.General.HorizonDays,
	}
	if flagDate != "" {
		opts.Now = s.now
	}
	if flagTUIRefresh {
		opts.RefreshInterval = s.cfg.PollInterval()
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
