package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/config"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldGranularity
	settingsFieldHorizon
	settingsFieldDataset
	settingsFieldDataDir
	settingsFieldDaemonAddr
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldGranularity:
		ti.Placeholder = "weekly, monthly or yearly"
		ti.SetValue(string(a.granularity))
	case settingsFieldHorizon:
		ti.Placeholder = "370 (days of recurring charges to project)"
		ti.SetValue(strconv.Itoa(cfg.General.HorizonDays))
	case settingsFieldDataset:
		ti.Placeholder = "default"
		ti.SetValue(a.opts.Dataset)
	case settingsFieldDataDir:
		ti.Placeholder = "~/statements (leave empty to skip import)"
		ti.SetValue(a.opts.DataDir)
	case settingsFieldDaemonAddr:
		ti.Placeholder = "127.0.0.1:8787"
		ti.SetValue(cfg.Daemon.Addr)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		reload := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		if reload && a.settings.saveErr == nil && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates and persists the edited field. It reports whether
// the dataset has to be reloaded.
func (a *App) settingsSave() bool {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	reload := false

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return false
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldGranularity:
		g, err := model.ParseGranularity(val)
		if err != nil {
			a.settings.saveErr = err
			return false
		}
		cfg.General.Granularity = string(g)
		a.setGranularity(g)
	case settingsFieldHorizon:
		d, err := strconv.Atoi(val)
		if err != nil || d < 0 {
			a.settings.saveErr = fmt.Errorf("horizon %q: want a number of days", val)
			return false
		}
		cfg.General.HorizonDays = d
		a.opts.HorizonDays = d
		a.recompute()
	case settingsFieldDataset:
		if val == "" {
			a.settings.saveErr = errors.New("dataset cannot be empty")
			return false
		}
		cfg.General.Dataset = val
		reload = val != a.opts.Dataset
		a.opts.Dataset = val
	case settingsFieldDataDir:
		cfg.General.DataDir = val
		reload = val != a.opts.DataDir
		a.opts.DataDir = val
	case settingsFieldDaemonAddr:
		cfg.Daemon.Addr = val
	}

	if err := cfg.Validate(); err != nil {
		a.settings.saveErr = err
		return false
	}
	a.settings.saveErr = config.Save(cfg)
	return reload
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	fields := []field{
		{"Theme", theme.Active.Name},
		{"Granularity", string(a.granularity)},
		{"Horizon", fmt.Sprintf("%d days", cfg.General.HorizonDays)},
		{"Dataset", a.opts.Dataset},
		{"Statements dir", orNotSet(a.opts.DataDir)},
		{"Daemon address", cfg.Daemon.Addr},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	info := func(label, value string) {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value) + "\n")
	}
	info("Database", a.opts.DBPath)
	info("Config file", config.ConfigPath())
	info("Transactions", cli.FormatNumber(int64(len(a.txs))))
	if ir := a.imported; ir != nil {
		info("Statement files", fmt.Sprintf("%d (%d reparsed, %d unchanged, %d removed)",
			ir.TotalFiles, ir.Reparsed, ir.Unchanged, ir.Removed))
		if ir.ParseErrors > 0 || ir.FileErrors > 0 {
			info("Skipped", fmt.Sprintf("%d rows, %d files", ir.ParseErrors, ir.FileErrors))
		}
	}
	infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", "Load time")) +
		valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
