package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Every component draws from the active theme.
type Theme struct {
	Name      string
	Accent    lipgloss.Color
	User      lipgloss.Color
	Assistant lipgloss.Color
	System    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	// Glamour is the glamour standard style used for answers.
	Glamour string
	// Chroma is the chroma style used for SQL.
	Chroma string
}

var themes = map[string]Theme{
	"dark": {
		Name:      "dark",
		Accent:    lipgloss.Color("62"),
		User:      lipgloss.Color("39"),
		Assistant: lipgloss.Color("214"),
		System:    lipgloss.Color("245"),
		Muted:     lipgloss.Color("241"),
		Error:     lipgloss.Color("203"),
		Success:   lipgloss.Color("78"),
		Surface:   lipgloss.Color("235"),
		Text:      lipgloss.Color("252"),
		Glamour:   "dark",
		Chroma:    "monokai",
	},
	"light": {
		Name:      "light",
		Accent:    lipgloss.Color("25"),
		User:      lipgloss.Color("26"),
		Assistant: lipgloss.Color("130"),
		System:    lipgloss.Color("243"),
		Muted:     lipgloss.Color("245"),
		Error:     lipgloss.Color("160"),
		Success:   lipgloss.Color("28"),
		Surface:   lipgloss.Color("254"),
		Text:      lipgloss.Color("235"),
		Glamour:   "light",
		Chroma:    "github",
	},
	"terminal": {
		Name:      "terminal",
		Accent:    lipgloss.Color("2"),
		User:      lipgloss.Color("10"),
		Assistant: lipgloss.Color("2"),
		System:    lipgloss.Color("8"),
		Muted:     lipgloss.Color("8"),
		Error:     lipgloss.Color("9"),
		Success:   lipgloss.Color("10"),
		Surface:   lipgloss.Color("0"),
		Text:      lipgloss.Color("10"),
		Glamour:   "dark",
		Chroma:    "vim",
	},
}

// Names lists the available themes.
func Names() []string {
	return []string{"dark", "light", "terminal"}
}

// Get returns the named theme, or dark when the name is unknown.
func Get(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["dark"]
}

func (t Theme) InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func (t Theme) StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Muted).
		Background(t.Surface).
		Padding(0, 1).
		Width(width)
}

func (t Theme) SystemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.System).
		Italic(true).
		Padding(0, 2)
}

func (t Theme) UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.User).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.User).
		Padding(0, 1).
		MarginLeft(2)
}

func (t Theme) AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Assistant).
		Padding(0, 1).
		MarginLeft(2)
}

func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Padding(0, 2)
}

func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

// ChipStyle draws a follow-up suggestion; the selected chip is inverted.
func (t Theme) ChipStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)
	if selected {
		s = s.Foreground(t.Surface).Background(t.Accent)
	}
	return s
}

// GateStyle frames the confirmation prompt in the query kind's color.
func (t Theme) GateStyle(color string, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		MarginLeft(2).
		Width(max(width-6, 20))
}

func (t Theme) PanelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1).
		Width(max(width, 10))
}

func (t Theme) TabStyle(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return s.Foreground(t.Surface).Background(t.Accent).Bold(true)
	}
	return s.Foreground(t.Muted)
}
