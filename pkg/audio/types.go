// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats and sample conversions
package audio

import (
	"time"

	"github.com/chewxy/math32"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// scale24 maps the 24-bit integer range onto [-1, 1)
	scale24 = 8388608.0
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameDuration returns the duration of n frames at this format's sample rate
func (f Format) FrameDuration(n int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(f.SampleRate) * float64(time.Second))
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// SampleToFloat converts a 24-bit range int32 sample to a float in [-1, 1)
func SampleToFloat(sample int32) float32 {
	return float32(sample) / scale24
}

// SampleFromFloat converts a normalized float sample to the 24-bit int32 range.
// Values outside [-1, 1] are clipped; NaN maps to silence.
func SampleFromFloat(sample float32) int32 {
	if math32.IsNaN(sample) {
		return 0
	}
	scaled := math32.Floor(sample*scale24 + 0.5)
	if scaled > Max24Bit {
		return Max24Bit
	}
	if scaled < Min24Bit {
		return Min24Bit
	}
	return int32(scaled)
}

// SampleFromBitDepth shifts an integer sample of the given bit depth into the 24-bit range
func SampleFromBitDepth(sample int32, bitDepth int) int32 {
	shift := bitDepth - 24
	if shift > 0 {
		return sample >> shift
	}
	return sample << -shift
}

// SampleToBitDepth shifts a 24-bit range sample to the given bit depth
func SampleToBitDepth(sample int32, bitDepth int) int32 {
	return SampleFromBitDepth(sample, 48-bitDepth)
}
