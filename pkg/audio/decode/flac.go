// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC streams frame by frame to float samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// Decode parses every frame of the FLAC stream
func (FLACDecoder) Decode(r io.Reader) (*Track, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	samples := make([]float32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				sample := audio.SampleFromBitDepth(frame.Subframes[ch].Samples[i], bitDepth)
				samples = append(samples, audio.SampleToFloat(sample))
			}
		}
	}

	buf, err := audio.FromInterleaved(samples, channels)
	if err != nil {
		return nil, err
	}

	return &Track{
		Buffer: buf,
		Format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
