package ui

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/stream"
)

// renderMain renders the header, the command bar and the log pane.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	return b.String()
}

// renderHeader renders the status bar: connection state, address, counts
// and the active filter.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	state := m.session.State()
	parts := []string{
		bg.Render("tdulog", styles.Logo),
		m.theme.StateChip(state).Render(strings.ToUpper(state.String())),
	}

	if m.address != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.address, 40), styles.Text))
	}

	counts := humanize.Comma(int64(m.logState.visible()))
	if m.filter.Active() {
		counts += "/" + humanize.Comma(int64(m.logState.total))
	}
	label := "Messages:"
	if compact {
		label = "M:"
	}
	parts = append(parts, bg.Render(label, styles.MutedText)+bg.Space()+bg.Render(counts, styles.Text))

	parts = append(parts, m.filterSummary(styles, bg, compact)...)

	if m.store.Autoscroll() {
		parts = append(parts, bg.Render("auto", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("paused", styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) filterSummary(styles Styles, bg BgStyle, compact bool) []string {
	var parts []string

	level := m.filter.Level
	if level.Known() {
		parts = append(parts, bg.Render("≥", styles.MutedText)+bg.Render(level.String(), m.theme.LevelStyle(level)))
	}

	if n := len(m.filter.Subsystems); n > 0 {
		text := strings.Join(m.filter.Subsystems, ",")
		if compact || len(text) > 30 {
			text = humanize.Comma(int64(n)) + " subsystems"
		}
		parts = append(parts, bg.Render("["+text+"]", styles.AccentText))
	}

	if m.filter.Search != "" && !m.searchActive {
		parts = append(parts, bg.Render("/"+truncateMiddle(m.filter.Search, 24), styles.InfoText))
	}

	if m.filter.Passthrough != filter.PassthroughAtDebug && !compact {
		parts = append(parts, bg.Render("raw:"+m.filter.Passthrough.String(), styles.FaintText))
	}
	return parts
}

// renderCommandBar shows the search input while searching, a notice when
// one is pending, and key hints otherwise.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searchActive {
		return styles.Footer.Width(m.width).Render(m.searchInput.View())
	}

	if m.notice.text != "" {
		style := styles.InfoText
		if m.notice.isError {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.Render(truncate(m.notice.text, m.width-2), style))
	}

	connect := "connect"
	switch m.session.State() {
	case stream.StateOpen:
		connect = "disconnect"
	case stream.StateConnecting:
		connect = "cancel"
	}

	hints := []struct{ key, desc string }{
		{"c", connect},
		{"/", "search"},
		{"l", "level"},
		{"o", "settings"},
		{"a", "autoscroll"},
		{"x", "clear"},
		{"y", "share"},
		{"?", "help"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bg.Render(h.key, styles.AccentText)+bg.Space()+bg.Render(h.desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// windowTitle names the connection in the terminal title.
func (m Model) windowTitle() string {
	title := "tdulog: " + m.session.State().String()
	if m.address != "" {
		title += " " + m.address
	}
	return title
}
