package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/config"
	"github.com/five82/linewatch/internal/equipment"
	"github.com/five82/linewatch/internal/prefs"
	"github.com/five82/linewatch/internal/provider"
	"github.com/five82/linewatch/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewEquipment View = iota
	ViewOverview
	ViewLogs
)

var viewNames = map[View]string{
	ViewEquipment: "equipment",
	ViewOverview:  "overview",
	ViewLogs:      "logs",
}

// String returns the name stored in preferences.
func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "equipment"
}

func viewFromName(name string) View {
	for v, n := range viewNames {
		if n == name {
			return v
		}
	}
	return ViewEquipment
}

// Provider is the slice of provider.Provider the UI queries directly.
type Provider interface {
	GetStatuses() []equipment.Status
	GetEquipmentTypes(ctx context.Context) ([]string, error)
	GetLocations(ctx context.Context) ([]string, error)
	TestConnection(ctx context.Context) provider.ConnectionResult
}

// Refresher refreshes the store for the current filters.
type Refresher interface {
	Refresh(ctx context.Context) error
	Filters() equipment.Filters
	SetFilters(filters equipment.Filters)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Provider  Provider
	Refresher Refresher
	Store     *state.Store
	Config    *config.Config
	PollTick  time.Duration // how often the UI re-reads the store
	ThemeName string
	ViewName  string // initial view, as saved in prefs
	PrefsPath string
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	provider  Provider
	refresher Refresher
	store     *state.Store
	config    *config.Config
	prefsPath string
	pollTick  time.Duration
	log       zerolog.Logger
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	statuses    []equipment.Status
	types       []string
	locations   []string

	// Equipment table state
	selectedRow int

	// Overview state
	overviewViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Overlays
	showHelp bool
	modal    Modal

	// Action feedback
	refreshing bool
	notice     string
	noticeErr  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		provider:    opts.Provider,
		refresher:   opts.Refresher,
		store:       opts.Store,
		config:      opts.Config,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		log:         opts.Logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: viewFromName(opts.ViewName),
		statuses:    equipment.Statuses(),
	}
	if m.provider != nil {
		m.statuses = m.provider.GetStatuses()
	}
	m.initLogState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.provider != nil {
		cmds = append(cmds, catalogCmd(m.ctx, m.provider))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.refreshLogs(true))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampSelection()
		m.updateOverviewViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.setNotice("Refresh failed: "+msg.err.Error(), true)
		} else {
			m.setNotice("Refreshed", false)
		}
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.provider != nil {
			cmds = append(cmds, catalogCmd(m.ctx, m.provider))
		}
		return m, tea.Batch(cmds...)

	case connectionMsg:
		result := provider.ConnectionResult(msg)
		m.setNotice(result.Message, !result.Connected)
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case catalogMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("load filter choices failed")
			return m, nil
		}
		m.types = msg.types
		m.locations = msg.locations
		return m, nil

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateOverviewViewport()
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.startRefresh()
		return m, cmd

	case key.Matches(msg, m.keys.TestConnection):
		if m.provider == nil {
			return m, nil
		}
		m.setNotice("Testing API connection...", false)
		return m, testConnectionCmd(m.ctx, m.provider, m.store, m.actionTimeout())

	case key.Matches(msg, m.keys.Filters):
		m.modal = newFilterModal(m.currentFilters(), m.statuses, m.types, m.locations)
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		cmd := m.applyFilters(equipment.Filters{})
		return m, cmd

	case key.Matches(msg, m.keys.Tab):
		cmd := m.toggleFocus(false)
		return m, cmd

	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.toggleFocus(true)
		return m, cmd

	case key.Matches(msg, m.keys.ViewEquipment):
		m.switchView(ViewEquipment)
		return m, nil

	case key.Matches(msg, m.keys.ViewOverview):
		m.switchView(ViewOverview)
		m.updateOverviewViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.switchView(ViewLogs)
		return m, m.refreshLogs(true)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs && m.logState.searchRegex != nil {
			break
		}
		m.switchView(ViewEquipment)
		m.focusedPane = 0
		return m, nil
	}

	switch m.currentView {
	case ViewEquipment:
		return m.handleEquipmentKey(msg)
	case ViewOverview:
		return m.handleOverviewKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// toggleFocus cycles Equipment(table) → Equipment(detail) → Overview → Logs.
func (m *Model) toggleFocus(reverse bool) tea.Cmd {
	type stop struct {
		view View
		pane int
	}
	stops := []stop{{ViewEquipment, 0}, {ViewEquipment, 1}, {ViewOverview, 0}, {ViewLogs, 0}}
	current := 0
	for i, s := range stops {
		if s.view == m.currentView && (s.view != ViewEquipment || s.pane == m.focusedPane) {
			current = i
			break
		}
	}
	step := 1
	if reverse {
		step = len(stops) - 1
	}
	next := stops[(current+step)%len(stops)]
	m.switchView(next.view)
	m.focusedPane = next.pane
	switch next.view {
	case ViewOverview:
		m.updateOverviewViewport()
	case ViewLogs:
		return m.refreshLogs(true)
	}
	return nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot installs a new store snapshot, keeping the selection on the same
// equipment when it is still listed.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID int
	if rec := m.selectedRecord(); rec != nil {
		selectedID = rec.EquipmentID
	}
	m.snapshot = snap
	m.lastUpdated = snap.LastUpdated
	if selectedID > 0 {
		for i, rec := range m.snapshot.Records {
			if rec.EquipmentID == selectedID {
				m.selectedRow = i
				break
			}
		}
	}
	m.clampSelection()
	m.updateOverviewViewport()
}

// switchView changes the active view and remembers it across restarts.
func (m *Model) switchView(v View) {
	if m.currentView == v {
		return
	}
	m.currentView = v
	m.savePrefs()
}

// startRefresh kicks off an on-demand refresh unless one is running.
func (m *Model) startRefresh() tea.Cmd {
	if m.refresher == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	m.setNotice("Refreshing...", false)
	return refreshCmd(m.ctx, m.refresher, m.actionTimeout())
}

// applyFilters switches the refresher to filters, persists them, and refreshes.
func (m *Model) applyFilters(filters equipment.Filters) tea.Cmd {
	if m.refresher == nil {
		return nil
	}
	m.refresher.SetFilters(filters)
	m.selectedRow = 0
	m.savePrefs()
	m.refreshing = false
	return m.startRefresh()
}

// currentFilters returns the filters the next refresh will use.
func (m Model) currentFilters() equipment.Filters {
	if m.refresher != nil {
		return m.refresher.Filters()
	}
	return m.snapshot.Filters
}

// savePrefs persists the theme, view and filters, logging failures.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String(), Filters: m.currentFilters()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// actionTimeout bounds an on-demand action. It always outlasts the API client
// timeout so a slow API still ends in the local fallback.
func (m Model) actionTimeout() time.Duration {
	if m.config != nil && m.config.Timeout+actionSlack > ActionTimeout {
		return m.config.Timeout + actionSlack
	}
	return ActionTimeout
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = strings.TrimSpace(text)
	m.noticeErr = isErr
}

// updateModal forwards msg to the open modal and applies its result when it closes.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if !closed {
		m.modal = next
		return m, cmd
	}
	m.modal = nil
	if fm, ok := next.(*filterModal); ok && fm.applied {
		applyCmd := m.applyFilters(fm.result)
		return m, tea.Batch(cmd, applyCmd)
	}
	return m, cmd
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewEquipment:
		return m.renderEquipment()
	case ViewOverview:
		return m.renderOverview()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct {
	err error
}

type connectionMsg provider.ConnectionResult

type catalogMsg struct {
	types     []string
	locations []string
	err       error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, r Refresher, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return refreshDoneMsg{err: r.Refresh(ctx)}
	}
}

func testConnectionCmd(ctx context.Context, p Provider, store *state.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		result := p.TestConnection(ctx)
		if store != nil {
			store.SetConnection(result)
		}
		return connectionMsg(result)
	}
}

func catalogCmd(ctx context.Context, p Provider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		types, err := p.GetEquipmentTypes(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		locations, err := p.GetLocations(ctx)
		if err != nil {
			return catalogMsg{err: err}
		}
		return catalogMsg{types: types, locations: locations}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	return err
}
