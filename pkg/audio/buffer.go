// ABOUTME: Multi-channel sample buffer
// ABOUTME: Interleaved float32 frames with a fixed channel count
package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
)

// ErrShape is returned when samples cannot form whole frames
var ErrShape = errors.New("invalid buffer shape")

// Buffer holds decoded audio as interleaved float32 frames.
// The frame and channel counts are fixed at construction.
type Buffer struct {
	samples  []float32
	channels int
}

// NewBuffer allocates a silent buffer of the given shape.
// It panics if channels < 1 or frames < 0, like make does for bad lengths.
func NewBuffer(frames, channels int) *Buffer {
	if channels < 1 || frames < 0 {
		panic(fmt.Sprintf("audio: NewBuffer(%d, %d): %v", frames, channels, ErrShape))
	}
	return &Buffer{
		samples:  make([]float32, frames*channels),
		channels: channels,
	}
}

// FromInterleaved wraps interleaved samples without copying.
// The buffer takes ownership of samples.
func FromInterleaved(samples []float32, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrShape, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels", ErrShape, len(samples), channels)
	}
	return &Buffer{samples: samples, channels: channels}, nil
}

// FromMono wraps a single-channel sample slice without copying
func FromMono(samples []float32) *Buffer {
	return &Buffer{samples: samples, channels: 1}
}

// FromChannels interleaves planar channel slices into a new buffer.
// All channels must have the same length.
func FromChannels(planes [][]float32) (*Buffer, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrShape)
	}
	frames := len(planes[0])
	for ch, plane := range planes {
		if len(plane) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrShape, ch, len(plane), frames)
		}
	}

	b := NewBuffer(frames, len(planes))
	for ch, plane := range planes {
		for i, v := range plane {
			b.samples[i*b.channels+ch] = v
		}
	}
	return b, nil
}

// Frames returns the number of frames
func (b *Buffer) Frames() int {
	return len(b.samples) / b.channels
}

// Channels returns the number of channels per frame
func (b *Buffer) Channels() int {
	return b.channels
}

// Len returns the total number of samples across all channels
func (b *Buffer) Len() int {
	return len(b.samples)
}

// At returns the sample at frame i, channel ch
func (b *Buffer) At(i, ch int) float32 {
	return b.samples[i*b.channels+ch]
}

// Set stores v at frame i, channel ch
func (b *Buffer) Set(i, ch int, v float32) {
	b.samples[i*b.channels+ch] = v
}

// Frame returns a copy of frame i
func (b *Buffer) Frame(i int) []float32 {
	out := make([]float32, b.channels)
	copy(out, b.samples[i*b.channels:(i+1)*b.channels])
	return out
}

// Channel returns a copy of one channel's samples
func (b *Buffer) Channel(ch int) []float32 {
	n := b.Frames()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = b.samples[i*b.channels+ch]
	}
	return out
}

// Interleaved returns a copy of the interleaved samples
func (b *Buffer) Interleaved() []float32 {
	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Clone returns an independent copy of the buffer
func (b *Buffer) Clone() *Buffer {
	return &Buffer{samples: b.Interleaved(), channels: b.channels}
}

// Duration returns the playback length at the given sample rate
func (b *Buffer) Duration(sampleRate int) time.Duration {
	return Format{SampleRate: sampleRate}.FrameDuration(b.Frames())
}

// Peak returns the largest absolute sample value
func (b *Buffer) Peak() float32 {
	var peak float32
	for _, s := range b.samples {
		peak = math32.Max(peak, math32.Abs(s))
	}
	return peak
}

// Int32Samples converts the buffer to interleaved 24-bit range integers
func (b *Buffer) Int32Samples() []int32 {
	out := make([]int32, len(b.samples))
	for i, s := range b.samples {
		out[i] = SampleFromFloat(s)
	}
	return out
}

// FromInt32 builds a buffer from interleaved 24-bit range integers
func FromInt32(samples []int32, channels int) (*Buffer, error) {
	floats := make([]float32, len(samples))
	for i, s := range samples {
		floats[i] = SampleToFloat(s)
	}
	return FromInterleaved(floats, channels)
}
