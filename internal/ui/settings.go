package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tdulog/internal/stream"
)

// Settings panel rows. Subsystem checkboxes follow fieldSubsystems.
const (
	fieldAddress = iota
	fieldLevel
	fieldSearch
	fieldAutoscroll
	fieldClear
	fieldSubsystems
)

// settingsState holds the settings panel inputs.
type settingsState struct {
	address textinput.Model
	search  textinput.Model
	focus   int
}

func newSettingsState() settingsState {
	address := textinput.New()
	address.Placeholder = "host, host:port, ws://… or file://path"
	address.CharLimit = 256
	address.Width = 40

	search := textinput.New()
	search.Placeholder = "case-insensitive substring"
	search.CharLimit = 200
	search.Width = 40

	return settingsState{address: address, search: search}
}

// settingsSubsystems lists the checkbox rows: every subsystem seen on this
// connection in arrival order, then active entries not seen yet so they can
// still be unchecked.
func (m Model) settingsSubsystems() []string {
	seen := m.store.Subsystems()
	out := append([]string(nil), seen...)
	for _, active := range m.filter.Subsystems {
		found := false
		for _, s := range seen {
			if s == active {
				found = true
				break
			}
		}
		if !found {
			out = append(out, active)
		}
	}
	return out
}

func (m Model) settingsRows() int {
	return fieldSubsystems + len(m.settingsSubsystems())
}

// openSettings shows the panel with the current address and search.
func (m *Model) openSettings() tea.Cmd {
	m.settings.address.SetValue(m.address)
	m.settings.address.CursorEnd()
	m.settings.search.SetValue(m.filter.Search)
	m.settings.search.CursorEnd()
	m.showSettings = true
	return m.focusSetting(fieldAddress)
}

// closeSettings commits the edited address and hides the panel.
func (m *Model) closeSettings() {
	m.address = strings.TrimSpace(m.settings.address.Value())
	m.settings.address.Blur()
	m.settings.search.Blur()
	m.showSettings = false
}

func (m *Model) focusSetting(row int) tea.Cmd {
	m.settings.focus = row
	m.settings.address.Blur()
	m.settings.search.Blur()
	switch row {
	case fieldAddress:
		return m.settings.address.Focus()
	case fieldSearch:
		return m.settings.search.Focus()
	}
	return nil
}

// handleSettingsKey handles keyboard input for the settings panel. Level,
// search, autoscroll and subsystem changes apply immediately; the address
// is committed when the panel closes.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.settingsRows()
	focus := m.settings.focus
	if focus >= rows {
		focus = rows - 1
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.closeSettings()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m, m.focusSetting((focus + 1) % rows)

	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.focusSetting((focus - 1 + rows) % rows)

	case key.Matches(msg, m.keys.Confirm):
		switch focus {
		case fieldAddress:
			m.closeSettings()
			if m.session.State() == stream.StateConnecting {
				return m, nil
			}
			return m, m.connect()
		case fieldSearch:
			m.closeSettings()
			return m, nil
		}
		m.activateSetting(focus)
		return m, nil
	}

	switch focus {
	case fieldAddress:
		var cmd tea.Cmd
		m.settings.address, cmd = m.settings.address.Update(msg)
		return m, cmd

	case fieldSearch:
		var cmd tea.Cmd
		m.settings.search, cmd = m.settings.search.Update(msg)
		if value := m.settings.search.Value(); value != m.filter.Search {
			m.filter.Search = value
			m.searchInput.SetValue(value)
			m.applyFilter()
		}
		return m, cmd
	}

	if key.Matches(msg, m.keys.Toggle) {
		m.activateSetting(focus)
	}
	return m, nil
}

// activateSetting toggles or triggers a non-text row.
func (m *Model) activateSetting(row int) {
	switch {
	case row == fieldLevel:
		m.filter.Level = m.filter.Level.Next()
		m.applyFilter()
	case row == fieldAutoscroll:
		m.setAutoscroll(!m.store.Autoscroll())
	case row == fieldClear:
		m.store.Clear()
		m.updateLogViewport()
	case row >= fieldSubsystems:
		subs := m.settingsSubsystems()
		idx := row - fieldSubsystems
		if idx >= len(subs) {
			return
		}
		name := subs[idx]
		m.filter = m.filter.WithSubsystem(name, !m.filter.HasSubsystem(name))
		m.applyFilter()
	}
}

// renderSettings renders the settings panel.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	focus := m.settings.focus

	label := func(row int, text string) string {
		text = fmt.Sprintf("%-12s", text)
		if row == focus {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}
	marker := func(row int) string {
		if row == focus {
			return styles.AccentText.Render("› ")
		}
		return "  "
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Settings"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", settingsWidth-6)))
	b.WriteString("\n\n")

	b.WriteString(marker(fieldAddress) + label(fieldAddress, "Address"))
	b.WriteString(m.settings.address.View())
	b.WriteString("\n")
	b.WriteString("  " + styles.FaintText.Render(fmt.Sprintf("%-12s", "")+"state: "+m.session.State().String()))
	b.WriteString("\n\n")

	level := m.filter.Level
	b.WriteString(marker(fieldLevel) + label(fieldLevel, "Log level"))
	b.WriteString(m.theme.LevelStyle(level).Render(level.String()))
	b.WriteString(styles.FaintText.Render("  (space to cycle)"))
	b.WriteString("\n")

	b.WriteString(marker(fieldSearch) + label(fieldSearch, "Search"))
	b.WriteString(m.settings.search.View())
	b.WriteString("\n")

	b.WriteString(marker(fieldAutoscroll) + label(fieldAutoscroll, "Autoscroll"))
	b.WriteString(checkbox(m.store.Autoscroll(), styles))
	b.WriteString("\n")

	b.WriteString(marker(fieldClear) + label(fieldClear, "Messages"))
	b.WriteString(styles.DangerText.Render("[ Clear messages ]"))
	b.WriteString("\n\n")

	subs := m.settingsSubsystems()
	b.WriteString(styles.Text.Bold(true).Render("Subsystems"))
	if len(m.filter.Subsystems) == 0 {
		b.WriteString(styles.FaintText.Render("  none checked: all shown"))
	}
	b.WriteString("\n")
	if len(subs) == 0 {
		b.WriteString(styles.FaintText.Render("  none seen yet"))
		b.WriteString("\n")
	}
	start, end := subsystemWindow(len(subs), focus-fieldSubsystems, settingsVisibleSubs)
	if start > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  ↑ %d more", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		row := fieldSubsystems + i
		b.WriteString(marker(row))
		b.WriteString(checkbox(m.filter.HasSubsystem(subs[i]), styles))
		b.WriteString(" ")
		if row == focus {
			b.WriteString(styles.Selected.Render(subs[i]))
		} else {
			b.WriteString(styles.Text.Render(subs[i]))
		}
		b.WriteString("\n")
	}
	if end < len(subs) {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  ↓ %d more", len(subs)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Tab/↑↓: Move  •  Space: Toggle  •  Enter: Connect/Apply  •  Esc: Close"))

	return m.renderModal(b.String(), settingsWidth, m.theme.BorderFocus)
}

func checkbox(on bool, styles Styles) string {
	if on {
		return styles.SuccessText.Render("[x]")
	}
	return styles.MutedText.Render("[ ]")
}

// subsystemWindow returns the slice of n rows to draw so that the focused
// index stays visible.
func subsystemWindow(n, focused, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := 0
	if focused >= size {
		start = focused - size + 1
	}
	if start > n-size {
		start = n - size
	}
	return start, start + size
}
