package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/skypane/internal/logging"
	"github.com/five82/skypane/internal/logtail"
	"github.com/five82/skypane/internal/prefs"
	"github.com/five82/skypane/internal/state"
)

const (
	defaultRefresh    = 250 * time.Millisecond
	defaultStaleAfter = 20 * time.Minute
	logRefreshEvery   = 2 * time.Second
	debugLogLines     = 8
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Logger     *logging.Logger
	LogFile    string
	PrefsPath  string
	Prefs      prefs.Prefs
	StaleAfter time.Duration
	// Refresh is how often the store version is checked; zero uses 250ms.
	Refresh time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	logger     *logging.Logger
	logFile    string
	prefsPath  string
	prefs      prefs.Prefs
	staleAfter time.Duration
	refresh    time.Duration
	keys       keyMap

	// UI state
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot state.Snapshot
	version  uint64

	// Debug overlay
	logs        []logtail.Entry
	lastLogRead time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := Model{
		ctx:        ctx,
		store:      opts.Store,
		logger:     logger,
		logFile:    opts.LogFile,
		prefsPath:  prefsPath,
		prefs:      opts.Prefs,
		staleAfter: staleAfter,
		refresh:    refresh,
		keys:       DefaultKeyMap(),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
		m.version = m.snapshot.Version
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.refresh),
	}
	if m.snapshot.Debug {
		cmds = append(cmds, readLogsCmd(m.logFile))
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
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.version = m.snapshot.Version
		return m, nil

	case logsMsg:
		m.logs = msg.entries
		m.lastLogRead = msg.at
		return m, nil
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
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any other key closes help.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		return m.toggleDebug()
	}
	return m, nil
}

// toggleDebug flips the overlay, the log level and the saved preference.
func (m Model) toggleDebug() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	on := m.store.ToggleDebug()
	m.logger.SetDebug(on)
	m.prefs = m.prefs.WithDebug(on)
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
	m.logger.Info("debug overlay toggled", "debug", on)

	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if on {
		cmds = append(cmds, readLogsCmd(m.logFile))
	}
	return m, tea.Batch(cmds...)
}

// handleTick pulls a new snapshot only when the store version moved.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil && m.store.Version() != m.version {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.snapshot.Debug && now.Sub(m.lastLogRead) >= logRefreshEvery {
		cmds = append(cmds, readLogsCmd(m.logFile))
	}

	cmds = append(cmds, tickCmd(m.refresh))
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type logsMsg struct {
	entries []logtail.Entry
	at      time.Time
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

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		msg := logsMsg{at: time.Now()}
		if path == "" {
			return msg
		}
		entries, err := logtail.Read(path, debugLogLines)
		if err != nil {
			msg.entries = []logtail.Entry{{Level: "ERROR", Message: err.Error()}}
			return msg
		}
		msg.entries = entries
		return msg
	}
}

// Run starts the Bubble Tea program. Cancelling the context stops it cleanly.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
