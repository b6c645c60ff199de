// ABOUTME: FLAC audio encoder
// ABOUTME: Writes fixed-size verbatim frames through mewkiz/flac
package encode

import (
	"fmt"
	"io"

	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// flacBlockSize is the number of frames per FLAC block
const flacBlockSize = 4096

// flacChannels maps channel counts to FLAC's independent channel layouts
var flacChannels = []frame.Channels{
	frame.ChannelsMono,
	frame.ChannelsLR,
	frame.ChannelsLRC,
	frame.ChannelsLRLsRs,
	frame.ChannelsLRCLsRs,
	frame.ChannelsLRCLfeLsRs,
	frame.ChannelsLRCLfeCsSlSr,
	frame.ChannelsLRCLfeLsRsSlSr,
}

// FLACEncoder writes FLAC files
type FLACEncoder struct{}

// Extension returns ".flac"
func (FLACEncoder) Extension() string { return ".flac" }

// Encode writes buf as 16-bit or 24-bit FLAC
func (FLACEncoder) Encode(w io.Writer, buf *audio.Buffer, format audio.Format) error {
	channels := buf.Channels()
	if channels > len(flacChannels) {
		return fmt.Errorf("%w: FLAC supports at most %d channels, got %d", ErrUnsupportedFormat, len(flacChannels), channels)
	}
	if format.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	bitDepth := outputBitDepth(format.BitDepth)
	frames := buf.Frames()

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(format.SampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(frames),
	}

	// Hide Close and Seek from the encoder: the caller owns w, and the
	// stream info is complete up front
	enc, err := flac.NewEncoder(struct{ io.Writer }{w}, info)
	if err != nil {
		return fmt.Errorf("failed to create FLAC encoder: %w", err)
	}

	ints := buf.Int32Samples()
	for num, start := 0, 0; start < frames; num, start = num+1, start+flacBlockSize {
		end := min(start+flacBlockSize, frames)
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(end - start),
				SampleRate:        uint32(format.SampleRate),
				Channels:          flacChannels[channels-1],
				BitsPerSample:     uint8(bitDepth),
				Num:               uint64(num),
			},
			Subframes: make([]*frame.Subframe, channels),
		}
		for ch := 0; ch < channels; ch++ {
			samples := make([]int32, end-start)
			for i := range samples {
				samples[i] = audio.SampleToBitDepth(ints[(start+i)*channels+ch], bitDepth)
			}
			f.Subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  len(samples),
			}
		}

		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("failed to write FLAC frame %d: %w", num, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish FLAC stream: %w", err)
	}
	return nil
}
