package main

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pill/overlay"
)

// TUI message types
type FrameMsg struct{ Snap overlay.Snapshot }
type DismissedMsg struct{}

var levelBlocks = []rune("▁▂▃▄▅▆▇█")

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tuiModel struct {
	snap          overlay.Snapshot
	haveFrame     bool
	width, height int
	accent        string
	onClose       func()
	quitArmed     bool
}

func NewTUIProgram(accent string, onClose func()) *tea.Program {
	m := tuiModel{accent: accent, onClose: onClose}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// First press plays the close morph; second press quits hard.
			if m.quitArmed {
				return m, tea.Quit
			}
			m.quitArmed = true
			if m.onClose != nil {
				m.onClose()
			}
		}

	case FrameMsg:
		m.snap = msg.Snap
		m.haveFrame = true

	case DismissedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 || !m.haveFrame {
		return ""
	}

	content, fg := pillContent(m.snap)
	runes := []rune(content)
	shown := int(math.Round(m.snap.Eased * float64(len(runes))))
	if shown <= 0 {
		return ""
	}
	if shown < len(runes) {
		content = string(runes[:shown])
	}

	border := lipgloss.Color(m.accent)
	if m.snap.Mode == overlay.ModeOffline {
		border = lipgloss.Color("196")
	}
	pill := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Foreground(fg).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Bottom, pill)
}

// pillContent builds the unstyled interior text and its color. Styling
// happens after the morph truncation so escape codes never get cut.
func pillContent(snap overlay.Snapshot) (string, lipgloss.Color) {
	switch snap.Mode {
	case overlay.ModeOffline:
		return "check your network", lipgloss.Color("196")

	case overlay.ModeProcessing:
		frame := spinnerFrames[spinnerIndex(snap.SpinnerAngle)]
		return frame + " processing", lipgloss.Color("220")

	default:
		var bars strings.Builder
		for _, v := range snap.Bars {
			idx := int(v*float64(len(levelBlocks)-1) + 0.5)
			if idx < 0 {
				idx = 0
			}
			if idx >= len(levelBlocks) {
				idx = len(levelBlocks) - 1
			}
			bars.WriteRune(levelBlocks[idx])
		}
		return bars.String() + " " + snap.Clock, lipgloss.Color("42")
	}
}

func spinnerIndex(angle float64) int {
	idx := int(angle / (2 * math.Pi) * float64(len(spinnerFrames)))
	if idx < 0 {
		idx = 0
	}
	return idx % len(spinnerFrames)
}

type tuiSink struct {
	p *tea.Program
}

func (s *tuiSink) Frame(snap overlay.Snapshot) {
	s.p.Send(FrameMsg{Snap: snap})
}

func (s *tuiSink) Dismissed() {
	s.p.Send(DismissedMsg{})
}
