// ABOUTME: Bubbletea model for the rate-change result view
// ABOUTME: Defines view state, key handling and rendering
package ui

import (
	"fmt"
	"strings"

	"github.com/audiolab/ratechange/internal/report"
	"github.com/audiolab/ratechange/pkg/audio/resample"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel selects which comparison is shown
type Panel int

const (
	PanelSize Panel = iota
	PanelDuration
)

// Model represents the TUI state
type Model struct {
	// Result
	title    string
	summary  resample.Summary
	op       string
	channels int
	output   string

	// Playback
	playback PlaybackControl
	playing  bool
	volume   int
	muted    bool
	status   string

	panel    Panel
	quitting bool

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case playbackDoneMsg:
		m.applyPlayback(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderPanel())
	b.WriteString("\n\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader renders the track and transform line
func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	title := m.title
	if title == "" {
		title = "(untitled)"
	}

	s := titleStyle.Render("Rate change: "+truncate(title, 40)) + "\n"
	s += valueStyle.Render(fmt.Sprintf("%s  %d Hz %s", m.op, m.summary.SampleRate, channelName(m.channels)))
	if m.output != "" {
		s += "\n" + valueStyle.Render("Saved to "+m.output)
	}
	return s
}

// renderPanel renders the selected comparison
func (m Model) renderPanel() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	width := m.barWidth()

	switch m.panel {
	case PanelDuration:
		orig, res := m.summary.OriginalDuration(), m.summary.ResultDuration()
		peak := max(orig, res)
		return headerStyle.Render("Audio duration") + "\n" +
			fmt.Sprintf("  Original  %s %s\n", renderBar(int(orig), int(peak), width), report.FormatDuration(orig)) +
			fmt.Sprintf("  Result    %s %s", renderBar(int(res), int(peak), width), report.FormatDuration(res))
	default:
		orig, res := m.summary.OriginalFrames, m.summary.ResultFrames
		peak := max(orig, res)
		return headerStyle.Render("Array size") + "\n" +
			fmt.Sprintf("  Original  %s %s\n", renderBar(orig, peak, width), report.FormatCount(orig)) +
			fmt.Sprintf("  Result    %s %s", renderBar(res, peak, width), report.FormatCount(res))
	}
}

// renderControls renders playback and volume state
func (m Model) renderControls() string {
	if m.playback == nil {
		return "Playback: unavailable"
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	state := "stopped"
	if m.playing {
		state = "playing"
	}
	s := fmt.Sprintf("Playback: %s\nVolume: [%s] %d%%%s", state, renderBar(m.volume, 100, 10), m.volume, muteIcon)
	if m.status != "" {
		s += "\n" + m.status
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return lipgloss.NewStyle().Faint(true).Render("tab:Panel  p:Play  ↑/↓:Volume  m:Mute  q:Quit")
}

func (m Model) barWidth() int {
	if m.width > 40 {
		return min(m.width-30, 60)
	}
	return 20
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		if m.panel == PanelSize {
			m.panel = PanelDuration
		} else {
			m.panel = PanelSize
		}
	case "p":
		if m.playback == nil || m.playing {
			return m, nil
		}
		m.playing = true
		m.status = ""
		return m, playCmd(m.playback)
	case "up":
		if m.volume < 100 {
			m.volume = min(m.volume+5, 100)
			m.syncVolume()
		}
	case "down":
		if m.volume > 0 {
			m.volume = max(m.volume-5, 0)
			m.syncVolume()
		}
	case "m":
		m.muted = !m.muted
		if m.playback != nil {
			m.playback.SetMuted(m.muted)
		}
	}

	return m, nil
}

func (m Model) syncVolume() {
	if m.playback != nil {
		m.playback.SetVolume(m.volume)
	}
}

// applyPlayback updates model when preview playback ends
func (m *Model) applyPlayback(msg playbackDoneMsg) {
	m.playing = false
	if msg.err != nil {
		m.status = "Playback failed: " + msg.err.Error()
	} else {
		m.status = "Playback finished"
	}
}

type playbackDoneMsg struct {
	err error
}

func playCmd(p PlaybackControl) tea.Cmd {
	return func() tea.Msg {
		return playbackDoneMsg{err: p.Play()}
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := 0
	if max > 0 {
		filled = (value * width) / max
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncate cuts s to length terminal cells, ending in "..." when shortened
func truncate(s string, length int) string {
	return ansi.Truncate(s, length, "...")
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%d ch", channels)
	}
}
