// ABOUTME: WAV audio decoder
// ABOUTME: Walks RIFF chunks and decodes PCM or float data to float samples
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/audiolab/ratechange/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE

	// maxFmtChunk covers WAVE_FORMAT_EXTENSIBLE (40 bytes) with room to spare
	maxFmtChunk uint32 = 64
)

// WAVDecoder decodes RIFF/WAVE files
type WAVDecoder struct{}

// wavFormat holds the fields of the fmt chunk we use
type wavFormat struct {
	audioFormat   uint16
	numChannels   uint16
	sampleRate    uint32
	bitsPerSample uint16
}

// Decode reads the fmt and data chunks, skipping anything else
func (WAVDecoder) Decode(r io.Reader) (*Track, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" {
		return nil, errors.New("not a RIFF file")
	}
	if string(riff[8:12]) != "WAVE" {
		return nil, errors.New("not a WAVE file")
	}

	var format *wavFormat
	for {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		chunkID := string(header[0:4])
		chunkSize := binary.LittleEndian.Uint32(header[4:8])

		switch chunkID {
		case "fmt ":
			// Only the first maxFmtChunk bytes carry fields we read
			body := make([]byte, min(chunkSize, maxFmtChunk))
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			f, err := parseFmtChunk(body)
			if err != nil {
				return nil, err
			}
			format = f
			rest := int64(chunkSize) - int64(len(body)) + int64(chunkSize%2)
			if err := discard(r, rest, chunkID); err != nil {
				return nil, err
			}

		case "data":
			if format == nil {
				return nil, errors.New("data chunk before fmt chunk")
			}
			// Streaming writers may leave the size unset; read what is there
			data, err := io.ReadAll(io.LimitReader(r, int64(chunkSize)))
			if err != nil {
				return nil, fmt.Errorf("read PCM data: %w", err)
			}
			return decodeWAVData(data, format)

		default:
			// Chunks are word aligned
			if err := discard(r, int64(chunkSize)+int64(chunkSize%2), chunkID); err != nil {
				return nil, err
			}
		}
	}

	if format == nil {
		return nil, errors.New("missing fmt chunk")
	}
	return nil, errors.New("missing data chunk")
}

func parseFmtChunk(body []byte) (*wavFormat, error) {
	if len(body) < 16 {
		return nil, fmt.Errorf("fmt chunk too short: %d bytes", len(body))
	}

	f := &wavFormat{
		audioFormat:   binary.LittleEndian.Uint16(body[0:2]),
		numChannels:   binary.LittleEndian.Uint16(body[2:4]),
		sampleRate:    binary.LittleEndian.Uint32(body[4:8]),
		bitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
	}

	// WAVE_FORMAT_EXTENSIBLE keeps the real format code at the start of the sub-format GUID
	if f.audioFormat == wavFormatExtensible {
		if len(body) < 26 {
			return nil, errors.New("extensible fmt chunk too short")
		}
		f.audioFormat = binary.LittleEndian.Uint16(body[24:26])
	}

	if f.numChannels == 0 {
		return nil, errors.New("fmt chunk declares zero channels")
	}

	switch {
	case f.audioFormat == wavFormatPCM && (f.bitsPerSample == 16 || f.bitsPerSample == 24 || f.bitsPerSample == 32):
	case f.audioFormat == wavFormatFloat && f.bitsPerSample == 32:
	default:
		return nil, fmt.Errorf("%w: wav format %d with %d bits per sample", ErrUnsupportedFormat, f.audioFormat, f.bitsPerSample)
	}

	return f, nil
}

func decodeWAVData(data []byte, f *wavFormat) (*Track, error) {
	channels := int(f.numChannels)
	bytesPerFrame := channels * int(f.bitsPerSample) / 8
	data = data[:len(data)-len(data)%bytesPerFrame]

	var samples []float32
	codec := "pcm"
	if f.audioFormat == wavFormatFloat {
		codec = "float"
		samples = make([]float32, len(data)/4)
		for i := range samples {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	} else {
		pcm, err := NewPCM(audio.Format{Codec: "pcm", BitDepth: int(f.bitsPerSample)})
		if err != nil {
			return nil, err
		}
		ints, err := pcm.Decode(data)
		if err != nil {
			return nil, err
		}
		samples = make([]float32, len(ints))
		for i, s := range ints {
			samples[i] = audio.SampleToFloat(s)
		}
	}

	buf, err := audio.FromInterleaved(samples, channels)
	if err != nil {
		return nil, err
	}

	return &Track{
		Buffer: buf,
		Format: audio.Format{
			Codec:      codec,
			SampleRate: int(f.sampleRate),
			Channels:   channels,
			BitDepth:   int(f.bitsPerSample),
		},
	}, nil
}

func discard(r io.Reader, n int64, id string) error {
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("skip chunk %q: %w", id, err)
	}
	return nil
}
