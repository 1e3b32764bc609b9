package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/prefs"
	"github.com/five82/tdulog/internal/state"
	"github.com/five82/tdulog/internal/stream"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *stream.Session
	Address   string
	Filter    filter.Config
	ThemeName string
	PrefsPath string
	Logger    *log.Logger

	// AutoConnect dials Address as soon as the program starts.
	AutoConnect bool

	// Clipboard receives shared filter queries. Nil uses the system
	// clipboard.
	Clipboard func(string) error
}

// notice is a transient message shown in the command bar.
type notice struct {
	text    string
	isError bool
	seq     int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *stream.Session
	store     *state.Store
	logger    *log.Logger
	prefsPath string
	clipboard func(string) error
	keys      keyMap

	autoConnect bool

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Connection and filter selection
	address string
	filter  filter.Config

	// Log pane
	logViewport viewport.Model
	logState    logState

	// Search bar
	searchActive bool
	searchInput  textinput.Model
	searchBefore string

	// Overlays
	showHelp     bool
	showSettings bool
	settings     settingsState

	notice notice
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	search := textinput.New()
	search.Placeholder = "Search messages..."
	search.Prompt = "/"
	search.CharLimit = 200
	search.SetValue(opts.Filter.Search)

	return Model{
		ctx:         ctx,
		session:     opts.Session,
		store:       opts.Session.Store(),
		logger:      logger,
		prefsPath:   prefsPath,
		clipboard:   copyFn,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		address:     strings.TrimSpace(opts.Address),
		filter:      opts.Filter,
		searchInput: search,
		settings:    newSettingsState(),
		logState:    logState{stale: true},
		autoConnect: opts.AutoConnect,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvents(m.session.Events())}
	if m.address != "" && m.autoConnect {
		cmds = append(cmds, func() tea.Msg { return connectMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.showHelp || m.showSettings {
			return m, nil
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.logState.stale = true
		m.updateLogViewport()
		return m, nil

	case eventsMsg:
		cmd := m.handleEvents(msg)
		return m, tea.Batch(waitForEvents(m.session.Events()), cmd)

	case connectMsg:
		return m, m.connect()

	case noticeExpiredMsg:
		if int(msg) == m.notice.seq {
			m.notice = notice{seq: m.notice.seq}
		}
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
	if m.showSettings {
		return m.renderSettings()
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
	if m.showSettings {
		return m.handleSettingsKey(msg)
	}
	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m, m.cycleTheme()

	case key.Matches(msg, m.keys.Connect):
		return m, m.toggleConnection()

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchBefore = m.filter.Search
		m.searchInput.SetValue(m.filter.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleLevel):
		m.filter.Level = m.filter.Level.Next()
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		return m, m.openSettings()

	case key.Matches(msg, m.keys.Share):
		return m, m.shareFilter()

	case key.Matches(msg, m.keys.Clear):
		m.store.Clear()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Autoscroll):
		m.setAutoscroll(!m.store.Autoscroll())
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.searchInput.SetValue("")
			m.applyFilter()
		}
		return m, nil
	}

	return m.handleLogsKey(msg)
}

// toggleConnection closes the live transport when there is one, which also
// abandons an attempt that is still connecting, and connects otherwise.
func (m *Model) toggleConnection() tea.Cmd {
	if m.session.State().Live() {
		m.session.Disconnect()
		return nil
	}
	return m.connect()
}

// connect starts a session to the current address and remembers it.
func (m *Model) connect() tea.Cmd {
	if m.address == "" {
		return m.setNotice("no address set; press o to enter one", true)
	}
	out := m.session.Connect(m.ctx, m.address)
	m.logState.stale = true
	m.updateLogViewport()
	title := tea.SetWindowTitle(m.windowTitle())
	if out.Notice != nil {
		return tea.Batch(title, m.setNotice(out.Notice.Error(), true))
	}
	if _, err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Address = m.address }); err != nil {
		m.logger.Warn().Err(err).Msg("save address preference")
	}
	return title
}

// handleEvents feeds a batch of transport events through the session and
// refreshes the view once.
func (m *Model) handleEvents(events eventsMsg) tea.Cmd {
	var cmds []tea.Cmd
	changed := false
	for _, ev := range events {
		out := m.session.Handle(ev)
		if out.Notice != nil {
			cmds = append(cmds, m.setNotice(out.Notice.Error(), true))
		}
		changed = changed || out.Changed
	}
	m.updateLogViewport()
	if changed {
		cmds = append(cmds, tea.SetWindowTitle(m.windowTitle()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.logState.stale = true
	m.updateLogViewport()
	if _, err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = m.theme.Name }); err != nil {
		m.logger.Warn().Err(err).Msg("save theme preference")
		return m.setNotice("could not save theme: "+err.Error(), true)
	}
	return nil
}

// shareFilter copies the current filter as a query string.
func (m *Model) shareFilter() tea.Cmd {
	query := "?" + m.filter.Encode()
	if err := m.clipboard(query); err != nil {
		m.logger.Debug().Err(err).Msg("clipboard unavailable")
		return m.setNotice("filter query: "+query, false)
	}
	return m.setNotice("copied "+query, false)
}

func (m *Model) setAutoscroll(on bool) {
	m.store.SetAutoscroll(on)
	if on {
		m.logViewport.GotoBottom()
	}
}

// applyFilter rebuilds the visible records after a filter change.
func (m *Model) applyFilter() {
	m.logState.stale = true
	m.updateLogViewport()
}

func (m *Model) setNotice(text string, isError bool) tea.Cmd {
	seq := m.notice.seq + 1
	m.notice = notice{text: text, isError: isError, seq: seq}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg(seq)
	})
}

// Filter returns the filter selection currently applied.
func (m Model) Filter() filter.Config {
	return m.filter
}

// Address returns the address the connect toggle dials.
func (m Model) Address() string {
	return m.address
}

// Messages

type eventsMsg []stream.Event

type connectMsg struct{}

type noticeExpiredMsg int

// Commands

// waitForEvents blocks for one event and then takes whatever else is already
// queued, up to eventBatchSize, so a burst renders once.
func waitForEvents(events <-chan stream.Event) tea.Cmd {
	return func() tea.Msg {
		first, ok := <-events
		if !ok {
			return nil
		}
		batch := eventsMsg{first}
		for len(batch) < eventBatchSize {
			select {
			case ev := <-events:
				batch = append(batch, ev)
			default:
				return batch
			}
		}
		return batch
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
