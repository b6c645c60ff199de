// ABOUTME: Oto-based audio output implementation
// ABOUTME: Handles PCM playback with software volume control using oto library
package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// drainPoll is how often Drain checks whether the player has gone idle
const drainPoll = 20 * time.Millisecond

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	volume     atomic.Int32
	muted      atomic.Bool
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	o := &Oto{}
	o.volume.Store(100)
	return o
}

// Open initializes the output device.
// oto allows one context per process, so a second Open with a different
// format fails instead of silently playing at the wrong rate.
func (o *Oto) Open(sampleRate, channels int) error {
	if o.otoCtx != nil {
		if o.sampleRate == sampleRate && o.channels == channels {
			return o.startPlayer()
		}
		return fmt.Errorf("output already initialized at %dHz %dch, cannot switch to %dHz %dch",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	return o.startPlayer()
}

// startPlayer creates a persistent player that reads from a fresh pipe
func (o *Oto) startPlayer() error {
	if o.ready {
		return nil
	}
	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true
	return nil
}

// Write outputs audio samples (blocks until the player has read them).
// Volume and mute may change from other goroutines while Write runs;
// each chunk uses the level current when it is written.
func (o *Oto) Write(buf *audio.Buffer) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}
	if buf.Channels() != o.channels {
		return fmt.Errorf("buffer has %d channels, output opened with %d", buf.Channels(), o.channels)
	}

	if err := streamPCM(o.pipeWriter, buf.Int32Samples(), o.channels, o.level); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Drain ends the stream and waits for the player to finish
func (o *Oto) Drain() error {
	if !o.ready {
		return nil
	}
	if err := o.pipeWriter.Close(); err != nil {
		return fmt.Errorf("failed to close pipe: %w", err)
	}
	for o.player.IsPlaying() {
		time.Sleep(drainPoll)
	}
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
	o.ready = false
	return nil
}

// SetVolume sets the volume (0-100). Safe to call during Write.
func (o *Oto) SetVolume(volume int) {
	o.volume.Store(int32(clampVolume(volume)))
}

// SetMuted sets mute state. Safe to call during Write.
func (o *Oto) SetMuted(muted bool) {
	o.muted.Store(muted)
}

// Volume returns current volume
func (o *Oto) Volume() int {
	return int(o.volume.Load())
}

// Muted returns mute state
func (o *Oto) Muted() bool {
	return o.muted.Load()
}

func (o *Oto) level() (int, bool) {
	return o.Volume(), o.Muted()
}
