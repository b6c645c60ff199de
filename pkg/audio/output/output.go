// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/audiolab/ratechange/pkg/audio"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write queues a buffer for playback (blocks until accepted)
	Write(buf *audio.Buffer) error

	// Drain blocks until queued audio has finished playing
	Drain() error

	// Close releases output resources
	Close() error
}

// Play opens out, plays buf to the end and closes the device
func Play(out Output, buf *audio.Buffer, sampleRate int) error {
	if err := out.Open(sampleRate, buf.Channels()); err != nil {
		return err
	}

	if err := out.Write(buf); err != nil {
		out.Close()
		return fmt.Errorf("playback failed: %w", err)
	}
	if err := out.Drain(); err != nil {
		out.Close()
		return fmt.Errorf("playback failed: %w", err)
	}

	return out.Close()
}

// chunkFrames is how many frames are scaled and written at once during
// playback, so volume and mute changes land within one chunk
const chunkFrames = 4096

// streamPCM writes samples to w as signed 16-bit little-endian PCM.
// level is read before every chunk.
func streamPCM(w io.Writer, samples []int32, channels int, level func() (int, bool)) error {
	step := chunkFrames * channels
	out := make([]byte, min(step, len(samples))*2)

	for start := 0; start < len(samples); start += step {
		end := min(start+step, len(samples))
		volume, muted := level()
		scaled := applyVolume(samples[start:end], volume, muted)

		chunk := out[:len(scaled)*2]
		for i, s := range scaled {
			binary.LittleEndian.PutUint16(chunk[i*2:], uint16(audio.SampleToInt16(s)))
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(samples []int32, volume int, muted bool) []int32 {
	multiplier := getVolumeMultiplier(volume, muted)

	result := make([]int32, len(samples))
	for i, sample := range samples {
		scaled := int64(float64(sample) * multiplier)

		// Clamp to 24-bit range to prevent overflow
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}

		result[i] = int32(scaled)
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}

// clampVolume limits volume to 0-100
func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
