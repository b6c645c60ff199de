// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion functions
package audio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleFromInt16(tt.input))
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906},
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleToInt16(tt.input))
		})
	}
}

func TestSample24BitPacking(t *testing.T) {
	tests := []struct {
		name   string
		sample int32
		packed [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
		{"max positive", Max24Bit, [3]byte{0xFF, 0xFF, 0x7F}},
		{"max negative", Min24Bit, [3]byte{0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.packed, SampleTo24Bit(tt.sample))
			assert.Equal(t, tt.sample, SampleFrom24Bit(tt.packed))
		})
	}
}

func TestSampleFloatConversion(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int32
	}{
		{"silence", 0, 0},
		{"half", 0.5, 4194304},
		{"negative half", -0.5, -4194304},
		{"full scale negative", -1, Min24Bit},
		{"clip positive", 1.5, Max24Bit},
		{"clip negative", -3, Min24Bit},
		{"nan", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleFromFloat(tt.input))
		})
	}

	assert.Equal(t, float32(0.5), SampleToFloat(4194304))
	assert.Equal(t, float32(-1), SampleToFloat(Min24Bit))
}

func TestSampleBitDepthShifts(t *testing.T) {
	assert.Equal(t, int32(100<<8), SampleFromBitDepth(100, 16))
	assert.Equal(t, int32(100), SampleFromBitDepth(100, 24))
	assert.Equal(t, int32(100), SampleFromBitDepth(100<<8, 32))
	assert.Equal(t, int32(100), SampleToBitDepth(100<<8, 16))
	assert.Equal(t, int32(100<<8), SampleToBitDepth(100, 32))
}

func TestFormatFrameDuration(t *testing.T) {
	f := Format{SampleRate: 48000}
	assert.Equal(t, time.Second, f.FrameDuration(48000))
	assert.Equal(t, 500*time.Millisecond, f.FrameDuration(24000))
	assert.Equal(t, time.Duration(0), Format{}.FrameDuration(100))
}
