// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 streams to stereo float samples
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// Decode reads the whole MP3 stream.
// go-mp3 always produces 16-bit little-endian stereo.
func (MP3Decoder) Decode(r io.Reader) (*Track, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	const channels = 2
	// Drop a trailing partial frame if the stream was cut short
	frameBytes := 2 * channels
	raw = raw[:len(raw)-len(raw)%frameBytes]

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		sample16 := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = audio.SampleToFloat(audio.SampleFromInt16(sample16))
	}

	buf, err := audio.FromInterleaved(samples, channels)
	if err != nil {
		return nil, err
	}

	return &Track{
		Buffer: buf,
		Format: audio.Format{
			Codec:      "mp3",
			SampleRate: decoder.SampleRate(),
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}
