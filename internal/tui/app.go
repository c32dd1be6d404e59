// Package tui provides the interactive Bubble Tea dashboard for budgetbuddy.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/calendar"
	"github.com/theirongolddev/budgetbuddy/internal/cli"
	"github.com/theirongolddev/budgetbuddy/internal/config"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
	"github.com/theirongolddev/budgetbuddy/internal/store"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"
	"github.com/theirongolddev/budgetbuddy/internal/tui/components"
	"github.com/theirongolddev/budgetbuddy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Tab indexes, in tab bar order.
const (
	tabDashboard = iota
	tabSubscriptions
	tabCalendar
	tabGoals
	tabSettings
)

// Options configures where the dashboard reads its data and how it starts.
type Options struct {
	DBPath      string
	Dataset     string
	DataDir     string // CSV statements imported on every load; empty skips import
	Granularity model.Granularity
	HorizonDays int
	// Now pins "today". Zero follows the wall clock.
	Now time.Time
	// RefreshInterval reloads the store periodically. Zero disables it.
	RefreshInterval time.Duration
}

// DataLoadedMsg is sent when the initial load finishes.
type DataLoadedMsg struct {
	Transactions []model.Transaction
	Goals        model.Goals
	Import       *pipeline.ImportResult
	Err          error
	LoadTime     time.Duration
}

// ProgressMsg reports statement parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Transactions []model.Transaction
	Goals        model.Goals
	Import       *pipeline.ImportResult
	Err          error
	LoadTime     time.Duration
}

// goalsSavedMsg is sent after goals have been written to the store.
type goalsSavedMsg struct {
	Goals model.Goals
	Err   error
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	txs      []model.Transaction
	goals    model.Goals
	imported *pipeline.ImportResult
	loadErr  error
	loaded   bool
	loadTime time.Duration

	// Refresh state
	lastRefresh time.Time
	refreshing  bool

	// Pre-computed for the current scope
	result       pipeline.Result
	prevExpenses decimal.Decimal
	subs         []model.Subscription
	subsTotal    decimal.Decimal
	calCells     []model.DayCell
	calIdx       calendar.Index

	// View state
	granularity model.Granularity
	scope       model.Scope
	scopeSet    bool // false follows the period containing today
	calMonth    time.Time
	calSel      time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	subState   subsState
	goalsState goalsState
	settings   settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Dataset == "" {
		opts.Dataset = store.DefaultDataset
	}
	if opts.DBPath == "" {
		opts.DBPath = pipeline.DBPath()
	}
	if opts.Granularity == "" {
		opts.Granularity = model.Monthly
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:        opts,
		granularity: opts.Granularity,
		needSetup:   !config.Exists(),
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	}
	if a.opts.RefreshInterval > 0 {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

// now returns the dashboard's notion of the current instant.
func (a App) now() time.Time {
	if !a.opts.Now.IsZero() {
		return a.opts.Now
	}
	return time.Now()
}

func (a *App) recompute() {
	now := a.now()

	in := pipeline.Input{
		Transactions: a.txs,
		Goals:        a.goals,
		Granularity:  a.granularity,
		Now:          now,
		HorizonDays:  a.opts.HorizonDays,
	}
	if a.scopeSet {
		s := a.scope
		in.Scope = &s
	}
	a.result = pipeline.Analyze(in)
	a.scope = a.result.Scope

	prev := pipeline.ShiftScope(a.scope, a.granularity, -1)
	in.Scope = &prev
	a.prevExpenses = pipeline.Analyze(in).Expenses

	a.subs = subscriptions.List(a.txs)
	a.subsTotal = subscriptions.MonthlyTotal(a.subs)
	if a.subState.cursor >= len(a.subs) {
		a.subState.cursor = len(a.subs) - 1
	}
	if a.subState.cursor < 0 {
		a.subState.cursor = 0
	}

	if a.calMonth.IsZero() {
		a.calSel = projection.Day(now)
		a.calMonth = firstOfMonth(a.calSel)
	}
	a.calCells, a.calIdx = calendar.Month(a.txs, a.calMonth)
}

// setGranularity switches granularity, keeping the period that contains
// the start of the current scope.
func (a *App) setGranularity(g model.Granularity) {
	if g == a.granularity {
		return
	}
	anchor := a.scope.Start
	if !a.scopeSet || anchor.IsZero() {
		anchor = a.now()
	}
	a.granularity = g
	if a.scopeSet {
		a.scope = pipeline.CurrentScope(g, anchor)
	}
	a.recompute()
}

func (a *App) shiftScope(n int) {
	a.scope = pipeline.ShiftScope(a.scope, a.granularity, n)
	a.scopeSet = true
	a.recompute()
}

func (a *App) resetScope() {
	a.scopeSet = false
	a.recompute()
}

// moveCalendar moves the selected day by n days, following it across months.
func (a *App) moveCalendar(days int) {
	a.calSel = a.calSel.AddDate(0, 0, days)
	if m := firstOfMonth(a.calSel); !m.Equal(a.calMonth) {
		a.calMonth = m
		a.calCells, a.calIdx = calendar.Month(a.txs, a.calMonth)
	}
}

func (a *App) shiftCalendarMonth(n int) {
	a.calMonth = a.calMonth.AddDate(0, n, 0)
	a.calSel = a.calMonth
	a.calCells, a.calIdx = calendar.Month(a.txs, a.calMonth)
}

func (a *App) applyData(txs []model.Transaction, goals model.Goals, imported *pipeline.ImportResult, err error, loadTime time.Duration) {
	a.loadErr = err
	a.loadTime = loadTime
	a.lastRefresh = time.Now()
	if err != nil {
		return
	}
	a.txs = txs
	a.goals = goals
	a.imported = imported
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.goalsState.form != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabSubscriptions {
				a.subState.up()
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == tabSubscriptions {
				a.subState.down(len(a.subs))
			}
			return a, nil

		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.applyData(msg.Transactions, msg.Goals, msg.Import, msg.Err, msg.LoadTime)
		if a.loadErr != nil {
			a.recompute()
		}

		if a.needSetup {
			a.setupVals = &setupValues{}
			a.setupForm = newSetupForm(len(a.txs), a.opts, a.goals, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.refreshing && a.opts.RefreshInterval > 0 &&
			time.Since(a.lastRefresh) >= a.opts.RefreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.applyData(msg.Transactions, msg.Goals, msg.Import, msg.Err, msg.LoadTime)
		return a, nil

	case goalsSavedMsg:
		a.goalsState.saveErr = msg.Err
		a.goalsState.saved = msg.Err == nil
		if msg.Err == nil {
			a.goals = msg.Goals
			a.recompute()
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.goalsState.form != nil {
		return a.updateGoalsForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// Forms intercept all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.goalsState.form != nil {
		return a.updateGoalsForm(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabSubscriptions:
		switch key {
		case "j", "down":
			a.subState.down(len(a.subs))
			return a, nil
		case "k", "up":
			a.subState.up()
			return a, nil
		case "home":
			a.subState.cursor = 0
			return a, nil
		case "end":
			a.subState.cursor = max(len(a.subs)-1, 0)
			return a, nil
		}

	case tabCalendar:
		switch key {
		case "h":
			a.moveCalendar(-1)
			return a, nil
		case "l":
			a.moveCalendar(1)
			return a, nil
		case "k", "up":
			a.moveCalendar(-7)
			return a, nil
		case "j", "down":
			a.moveCalendar(7)
			return a, nil
		case "[":
			a.shiftCalendarMonth(-1)
			return a, nil
		case "]":
			a.shiftCalendarMonth(1)
			return a, nil
		case "t":
			a.calSel = projection.Day(a.now())
			a.calMonth = firstOfMonth(a.calSel)
			a.calCells, a.calIdx = calendar.Month(a.txs, a.calMonth)
			return a, nil
		}

	case tabGoals:
		if key == "e" || key == "enter" {
			return a.startGoalsEdit()
		}

	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case "[":
		a.shiftScope(-1)
	case "]":
		a.shiftScope(1)
	case "t":
		a.resetScope()
	case "w":
		a.setGranularity(model.Weekly)
	case "m":
		a.setGranularity(model.Monthly)
	case "y":
		a.setGranularity(model.Yearly)
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		goals, reload, err := a.saveSetup()
		a.needSetup = false
		a.setupForm = nil
		if err != nil {
			a.loadErr = err
			return a, nil
		}
		cmds := []tea.Cmd{saveGoalsCmd(a.opts, goals)}
		if reload {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts))
		}
		return a, tea.Sequence(cmds...)

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetbuddy needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetbuddy"))
	b.WriteString(subtitleStyle.Render(" · " + a.opts.Dataset))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Importing statements\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Loading transactions..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	type binding struct{ key, desc string }
	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"d s c g x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"[ ]", "Previous / Next period"},
			{"t", "Back to today"},
			{"w m y", "Weekly / Monthly / Yearly"},
		}},
		{"Lists & Calendar", []binding{
			{"j k", "Move selection"},
			{"h l", "Previous / Next day (calendar)"},
			{"[ ]", "Previous / Next month (calendar)"},
		}},
		{"Actions", []binding{
			{"e", "Edit goals"},
			{"Enter", "Edit / Confirm"},
			{"Esc", "Cancel"},
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filterStr := pillStyle.Render(" ") +
		accentStyle.Render(string(a.granularity)) +
		pillStyle.Render(" │ ") +
		accentStyle.Render(pipeline.ScopeTitle(a.scope, a.granularity))
	if a.scopeSet {
		filterStr += pillStyle.Render("  [t] today")
	}
	filterStr += pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	info := components.StatusInfo{
		Dataset:    a.opts.Dataset,
		DataAge:    fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Refreshing: a.refreshing,
		BudgetPct:  -1,
	}
	if a.result.BudgetUsage.Available {
		info.BudgetPct = float64(a.result.BudgetUsage.Percent) / 100
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabSubscriptions:
		content = a.renderSubscriptionsTab(cw, contentH)
	case tabCalendar:
		content = a.renderCalendarTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}
	if a.loadErr != nil {
		content = renderError(a.loadErr, cw) + "\n" + content
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func renderError(err error, cw int) string {
	t := theme.Active
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	return components.ContentCard("Load failed", warnStyle.Render(err.Error()), cw)
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadedData is one consistent read of a dataset.
type loadedData struct {
	txs      []model.Transaction
	goals    model.Goals
	imported *pipeline.ImportResult
}

// loadData opens the store, imports changed statements from the data
// directory when one is configured, then reads the dataset back.
func loadData(opts Options, progressFn pipeline.ProgressFunc) (loadedData, error) {
	var out loadedData

	st, err := store.Open(opts.DBPath, opts.Dataset)
	if err != nil {
		return out, err
	}
	defer func() { _ = st.Close() }()

	if opts.DataDir != "" {
		ir, err := pipeline.LoadWithStore(opts.DataDir, st, progressFn)
		if err != nil {
			return out, fmt.Errorf("importing %s: %w", opts.DataDir, err)
		}
		out.imported = ir
	}

	if out.txs, err = st.ListTransactions(); err != nil {
		return out, err
	}
	if out.goals, err = st.GetGoals(); err != nil {
		return out, err
	}
	return out, nil
}

func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			data, err := loadData(opts, progressFn)
			sub <- DataLoadedMsg{
				Transactions: data.txs,
				Goals:        data.goals,
				Import:       data.imported,
				Err:          err,
				LoadTime:     time.Since(start),
			}
		}()

		return <-sub
	}
}

func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		data, err := loadData(opts, nil)
		return RefreshDataMsg{
			Transactions: data.txs,
			Goals:        data.goals,
			Import:       data.imported,
			Err:          err,
			LoadTime:     time.Since(start),
		}
	}
}

func saveGoalsCmd(opts Options, goals model.Goals) tea.Cmd {
	return func() tea.Msg {
		st, err := store.Open(opts.DBPath, opts.Dataset)
		if err != nil {
			return goalsSavedMsg{Err: err}
		}
		defer func() { _ = st.Close() }()
		return goalsSavedMsg{Goals: goals, Err: st.SaveGoals(goals)}
	}
}

func firstOfMonth(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// tabAtX maps a click on the tab bar to a tab index, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// separator
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to w with the background color
// so no cell is left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
