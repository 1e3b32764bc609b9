package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tdulog/internal/logline"
)

// logState caches the rendered form of the visible records.
//
// Between clears the store only grows, so records past consumed are the
// only ones that can change the view. A new epoch (clear or reconnect), a
// filter change or a theme change marks the cache stale and the next update
// renders from scratch.
type logState struct {
	lines    []string
	epoch    uint64
	consumed int
	total    int
	stale    bool
}

// visible returns the number of records that passed the filter.
func (s logState) visible() int {
	return len(s.lines)
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.logWidth(), m.logHeight())
	m.logViewport.Style = lipgloss.NewStyle()
}

func (m Model) logWidth() int {
	return max(m.width, 1)
}

// logHeight leaves room for the header and the command bar.
func (m Model) logHeight() int {
	return max(m.height-2, 1)
}

// updateLogViewport brings the viewport in line with the store and the
// current filter, rendering only records it has not seen yet.
func (m *Model) updateLogViewport() {
	snap := m.store.Snapshot()

	rebuilt := false
	if m.logState.stale || snap.Epoch != m.logState.epoch || len(snap.Records) < m.logState.consumed {
		m.logState = logState{epoch: snap.Epoch}
		rebuilt = true
	}

	styles := m.theme.Styles()
	for _, rec := range snap.Records[m.logState.consumed:] {
		if m.filter.Match(rec) {
			m.logState.lines = append(m.logState.lines, m.renderRecord(rec, styles))
		}
	}
	m.logState.consumed = len(snap.Records)
	m.logState.total = len(snap.Records)

	if !m.ready {
		return
	}
	m.logViewport.Width = m.logWidth()
	m.logViewport.Height = m.logHeight()
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(strings.Join(m.logState.lines, "\n"))

	scroll := m.store.ConsumeScroll()
	if scroll || (rebuilt && snap.Autoscroll) {
		m.logViewport.GotoBottom()
	}
}

// renderRecord colors one record. The plain text of the result is always
// rec.String().
func (m Model) renderRecord(rec logline.Record, styles Styles) string {
	if rec.Passthrough() {
		return styles.MutedText.Render(rec.Raw)
	}
	level := m.theme.LevelStyle(rec.Level)
	var b strings.Builder
	b.WriteString(styles.FaintText.Render(rec.Timestamp))
	b.WriteString(" ")
	b.WriteString(level.Render("(" + rec.Label + ")"))
	b.WriteString(" ")
	b.WriteString(styles.AccentText.Render("[" + rec.Subsystem + "]"))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(rec.Body))
	return b.String()
}

// renderLogs renders the log pane, or a placeholder when nothing is visible.
func (m Model) renderLogs() string {
	if m.logState.visible() > 0 {
		return m.logViewport.View()
	}

	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	msg := "Waiting for messages..."
	switch {
	case m.logState.total > 0:
		msg = "No messages match the current filter."
	case m.address == "":
		msg = "Press o to set an address, then c to connect."
	case !m.session.State().Live():
		msg = "Not connected. Press c to connect to " + m.address + "."
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(m.logWidth()).
		Height(m.logHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.MutedText.Render(msg))
}

// handleLogsKey scrolls the log pane.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
	return m, nil
}

// handleSearchInput edits the search term. The filter follows every
// keystroke; enter keeps the term and esc restores the previous one.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue(m.searchBefore)
		m.filter.Search = m.searchBefore
		m.applyFilter()
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.filter.Search {
		m.filter.Search = value
		m.applyFilter()
	}
	return m, cmd
}
