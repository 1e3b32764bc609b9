package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections groups the key map for the help overlay. The text comes from
// each binding's help so the overlay cannot drift from the key map.
func (m Model) helpSections() []helpSection {
	k := m.keys
	return []helpSection{
		{title: "Connection", bindings: []key.Binding{k.Connect, k.Settings}},
		{title: "Filters", bindings: []key.Binding{k.Search, k.CycleLevel, k.Escape, k.Share}},
		{title: "Messages", bindings: []key.Binding{k.Autoscroll, k.Clear, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp}},
		{title: "General", bindings: []key.Binding{k.CycleTheme, k.Help, k.Quit}},
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 34)))
	b.WriteString("\n\n")

	sections := m.helpSections()
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return m.renderModal(b.String(), helpWidth, m.theme.Accent)
}
