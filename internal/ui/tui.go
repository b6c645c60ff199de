// ABOUTME: TUI initialization and playback wiring
// ABOUTME: Wraps bubbletea program for the result view
package ui

import (
	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/audiolab/ratechange/pkg/audio/output"
	tea "github.com/charmbracelet/bubbletea"
)

// PlaybackControl previews the transformed audio
type PlaybackControl interface {
	// Play blocks until the preview finishes
	Play() error
	SetVolume(volume int)
	SetMuted(muted bool)
}

// NewModel creates a new TUI model. playback may be nil.
func NewModel(out *pipeline.Outcome, playback PlaybackControl) Model {
	m := Model{
		volume:   100,
		playback: playback,
	}
	if out != nil {
		m.title = out.Track.Title
		m.summary = out.Summary
		m.op = out.Result.Op.String()
		m.channels = out.Result.Buffer.Channels()
		m.output = out.OutputPath
	}
	return m
}

// Run starts the TUI and blocks until the user quits
func Run(out *pipeline.Outcome, playback PlaybackControl) error {
	_, err := tea.NewProgram(NewModel(out, playback), tea.WithAltScreen()).Run()
	return err
}

// OutcomePlayer plays an outcome's result through an output device
type OutcomePlayer struct {
	out    *pipeline.Outcome
	device *output.Oto
}

// NewOutcomePlayer creates a player for out using the Oto device
func NewOutcomePlayer(out *pipeline.Outcome, device *output.Oto) *OutcomePlayer {
	return &OutcomePlayer{out: out, device: device}
}

// Play previews the result at the source sample rate
func (p *OutcomePlayer) Play() error {
	return output.Play(p.device, p.out.Result.Buffer, p.out.Summary.SampleRate)
}

// SetVolume sets the device volume (0-100)
func (p *OutcomePlayer) SetVolume(volume int) { p.device.SetVolume(volume) }

// SetMuted mutes or unmutes the device
func (p *OutcomePlayer) SetMuted(muted bool) { p.device.SetMuted(muted) }
