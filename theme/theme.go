package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Symbols Symbols

	Header   lipgloss.Style
	Label    lipgloss.Style
	Count    lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
	Playhead lipgloss.Style
	Active   lipgloss.Style
	Cursor   lipgloss.Style
	Muted    lipgloss.Style
	Beat     lipgloss.Style
}

type Symbols struct {
	// Grid states (no cursor)
	StepEmpty    rune // · inactive step
	StepActive   rune // ● has hit
	StepPlayhead rune // ▶ current playing

	// Grid states (with cursor)
	CursorEmpty    rune // ○ cursor on empty
	CursorActive   rune // ◉ cursor on active
	CursorPlayhead rune // ▷ cursor on playhead
}

func New() *Theme {
	return &Theme{
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '▶',

			CursorEmpty:    '○',
			CursorActive:   '◉',
			CursorPlayhead: '▷',
		},

		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e86aa6")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9a6ae8")),
		Count:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5a4a7a")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#b8a5d6")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6a5a8a")),
		Playhead: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true),
		Active:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ea4974")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("#fd9d6e")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4a3a5a")),
		Beat:     lipgloss.NewStyle().Foreground(lipgloss.Color("#94127e")),
	}
}
