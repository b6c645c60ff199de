// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests key handling, playback messages and rendering
package ui

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/audiolab/ratechange/pkg/audio/decode"
	"github.com/audiolab/ratechange/pkg/audio/resample"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayback struct {
	plays  int
	volume int
	muted  bool
	err    error
}

func (f *fakePlayback) Play() error          { f.plays++; return f.err }
func (f *fakePlayback) SetVolume(volume int) { f.volume = volume }
func (f *fakePlayback) SetMuted(muted bool)  { f.muted = muted }

func testOutcome(t *testing.T) *pipeline.Outcome {
	t.Helper()
	buf, err := audio.FromInterleaved(make([]float32, 2*4410), 2)
	require.NoError(t, err)
	result, err := resample.Apply(buf, 2)
	require.NoError(t, err)
	return &pipeline.Outcome{
		Track:      &decode.Track{Buffer: buf, Format: audio.Format{SampleRate: 44100, Channels: 2}, Title: "song"},
		Result:     result,
		Summary:    result.Summary(44100),
		OutputPath: "out/new_file.wav",
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(s))
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	model := NewModel(testOutcome(t), nil)

	assert.Equal(t, "song", model.title)
	assert.Equal(t, 4410, model.summary.OriginalFrames)
	assert.Equal(t, 2205, model.summary.ResultFrames)
	assert.Equal(t, 2, model.channels)
	assert.Equal(t, 100, model.volume)
	assert.Equal(t, PanelSize, model.panel)
	assert.Equal(t, "out/new_file.wav", model.output)
}

func TestNewModelWithoutOutcome(t *testing.T) {
	model := NewModel(nil, nil)
	assert.Contains(t, model.View(), "(untitled)")
}

func TestTabTogglesPanel(t *testing.T) {
	model := NewModel(testOutcome(t), nil)

	model, _ = press(model, "tab")
	assert.Equal(t, PanelDuration, model.panel)
	assert.Contains(t, model.View(), "Audio duration")

	model, _ = press(model, "tab")
	assert.Equal(t, PanelSize, model.panel)
	assert.Contains(t, model.View(), "Array size")
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		model, cmd := press(NewModel(testOutcome(t), nil), k)
		require.NotNil(t, cmd, k)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.True(t, model.quitting)
		assert.Empty(t, model.View())
	}
}

func TestPlayRunsPlayback(t *testing.T) {
	fake := &fakePlayback{}
	model := NewModel(testOutcome(t), fake)

	model, cmd := press(model, "p")
	require.NotNil(t, cmd)
	assert.True(t, model.playing)
	assert.Contains(t, model.View(), "Playback: playing")

	// A second press while playing is ignored
	model, again := press(model, "p")
	assert.Nil(t, again)

	msg := cmd()
	assert.Equal(t, 1, fake.plays)

	next, _ := model.Update(msg)
	model = next.(Model)
	assert.False(t, model.playing)
	assert.Contains(t, model.View(), "Playback finished")
}

func TestPlayFailureShowsError(t *testing.T) {
	fake := &fakePlayback{err: errors.New("no device")}
	model := NewModel(testOutcome(t), fake)

	model, cmd := press(model, "p")
	next, _ := model.Update(cmd())
	model = next.(Model)

	assert.False(t, model.playing)
	assert.Contains(t, model.View(), "Playback failed: no device")
}

func TestPlayWithoutPlayback(t *testing.T) {
	model, cmd := press(NewModel(testOutcome(t), nil), "p")
	assert.Nil(t, cmd)
	assert.False(t, model.playing)
	assert.Contains(t, model.View(), "Playback: unavailable")
}

func TestVolumeKeys(t *testing.T) {
	fake := &fakePlayback{}
	model := NewModel(testOutcome(t), fake)

	model, _ = press(model, "up")
	assert.Equal(t, 100, model.volume, "volume is capped at 100")

	model, _ = press(model, "down")
	assert.Equal(t, 95, model.volume)
	assert.Equal(t, 95, fake.volume)

	for i := 0; i < 30; i++ {
		model, _ = press(model, "down")
	}
	assert.Equal(t, 0, model.volume)
	assert.Equal(t, 0, fake.volume)

	model, _ = press(model, "m")
	assert.True(t, model.muted)
	assert.True(t, fake.muted)
}

func TestWindowSize(t *testing.T) {
	model := NewModel(testOutcome(t), nil)
	next, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = next.(Model)

	assert.Equal(t, 120, model.width)
	assert.Equal(t, 60, model.barWidth())
	assert.Contains(t, model.View(), strings.Repeat("█", 60))
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value, max, width int
		expected          string
	}{
		{0, 100, 10, "░░░░░░░░░░"},
		{50, 100, 10, "█████░░░░░"},
		{100, 100, 10, "██████████"},
		{5, 0, 4, "░░░░"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, renderBar(tt.value, tt.max, tt.width))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long title", 10))
}

func TestTruncateMultibyte(t *testing.T) {
	titles := []string{
		"Симфония № 5 до минор",
		"東京の夜のジャズ・セッション",
		"café crème brûlée",
		"🎵🎶🎵🎶🎵🎶🎵🎶",
	}

	for _, title := range titles {
		for length := 3; length <= 16; length++ {
			got := truncate(title, length)
			assert.True(t, utf8.ValidString(got), "%q at %d", title, length)
			assert.LessOrEqual(t, ansi.StringWidth(got), length, "%q at %d", title, length)
		}
	}

	assert.Equal(t, "café crè...", truncate("café crème brûlée", 11))
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "Mono", channelName(1))
	assert.Equal(t, "Stereo", channelName(2))
	assert.Equal(t, "6 ch", channelName(6))
	assert.Equal(t, "3 ch", channelName(3))
}
