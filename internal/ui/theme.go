package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tdulog/internal/logline"
	"github.com/five82/tdulog/internal/stream"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	FocusBg    string // Log pane and panels

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Log level colors: Debug green, Info blue, Warning yellow, Error red.
	LevelColors map[logline.Level]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// WithBackground returns a copy of Styles with every style painted on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),
		Header:      s.Header.Background(bg),
		Footer:      s.Footer.Background(bg),
		Logo:        s.Logo.Background(bg),
		Selected:    s.Selected,
	}
}

// LevelStyle returns the foreground style for records at level. Records
// without a known level use the muted text color.
func (t Theme) LevelStyle(level logline.Level) lipgloss.Style {
	color, ok := t.LevelColors[level]
	if !ok {
		color = t.Muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// StateChip returns the badge style for a connection state: open green,
// connecting yellow, closed and error red.
func (t Theme) StateChip(s stream.State) lipgloss.Style {
	color := t.Faint
	switch s {
	case stream.StateOpen:
		color = t.Success
	case stream.StateConnecting:
		color = t.Warning
	case stream.StateClosed, stream.StateError:
		color = t.Danger
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
	"Paper":   paperTheme(),
}

var themeOrder = []string{"Dracula", "Slate", "Paper"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21", // BGDarker
		Surface:    "#282A36", // Background
		FocusBg:    "#21222C", // BGDark

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9", // Purple

		Text:    "#F8F8F2",
		Muted:   "#6272A4", // Comment
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B", // Green
		Warning: "#F1FA8C", // Yellow
		Danger:  "#FF5555", // Red
		Info:    "#8BE9FD", // Cyan

		LevelColors: map[logline.Level]string{
			logline.LevelDebug:   "#50FA7B",
			logline.LevelInfo:    "#8BE9FD",
			logline.LevelWarning: "#F1FA8C",
			logline.LevelError:   "#FF5555",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		FocusBg:    "#1e293b", // slate-800

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8",
		Success: "#22c55e", // green-500
		Warning: "#eab308", // yellow-500
		Danger:  "#ef4444", // red-500
		Info:    "#3b82f6", // blue-500

		LevelColors: map[logline.Level]string{
			logline.LevelDebug:   "#22c55e",
			logline.LevelInfo:    "#3b82f6",
			logline.LevelWarning: "#eab308",
			logline.LevelError:   "#ef4444",
		},
	}
}

// paperTheme is the light counterpart of the two dark themes.
func paperTheme() Theme {
	return Theme{
		Name: "Paper",

		Background: "#ffffff",
		Surface:    "#f1f5f9", // slate-100
		FocusBg:    "#f8fafc", // slate-50

		SelectionBg:   "#bae6fd", // sky-200
		SelectionText: "#0f172a",

		Border:      "#cbd5e1", // slate-300
		BorderFocus: "#0284c7", // sky-600

		Text:    "#0f172a", // slate-900
		Muted:   "#475569", // slate-600
		Faint:   "#94a3b8", // slate-400
		Accent:  "#0284c7",
		Success: "#15803d", // green-700
		Warning: "#a16207", // yellow-700
		Danger:  "#b91c1c", // red-700
		Info:    "#1d4ed8", // blue-700

		LevelColors: map[logline.Level]string{
			logline.LevelDebug:   "#15803d",
			logline.LevelInfo:    "#1d4ed8",
			logline.LevelWarning: "#a16207",
			logline.LevelError:   "#b91c1c",
		},
	}
}
