// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-bit, 24-bit and 32-bit PCM bytes to int32 samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/audiolab/ratechange/pkg/audio"
)

// PCMDecoder decodes raw little-endian PCM into 24-bit range int32 samples
type PCMDecoder struct {
	bitDepth int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 && format.BitDepth != 32 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24, 32)", format.BitDepth)
	}

	return &PCMDecoder{
		bitDepth: format.BitDepth,
	}, nil
}

// Decode converts PCM bytes to int32 samples.
// Trailing bytes that do not form a whole sample are ignored.
func (d *PCMDecoder) Decode(data []byte) ([]int32, error) {
	switch d.bitDepth {
	case 24:
		numSamples := len(data) / 3
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
		return samples, nil
	case 32:
		numSamples := len(data) / 4
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			sample := int32(binary.LittleEndian.Uint32(data[i*4:]))
			samples[i] = audio.SampleFromBitDepth(sample, 32)
		}
		return samples, nil
	default:
		numSamples := len(data) / 2
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = audio.SampleFromInt16(sample16)
		}
		return samples, nil
	}
}
