// ABOUTME: WAV audio encoder
// ABOUTME: Writes a canonical 44-byte RIFF header followed by PCM data
package encode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/audiolab/ratechange/pkg/audio"
)

// wavHeaderSize is the size of a canonical PCM WAV header
const wavHeaderSize = 44

// WAVEncoder writes PCM WAV files
type WAVEncoder struct{}

// Extension returns ".wav"
func (WAVEncoder) Extension() string { return ".wav" }

// Encode writes buf as 16-bit or 24-bit PCM
func (WAVEncoder) Encode(w io.Writer, buf *audio.Buffer, format audio.Format) error {
	if format.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	pcm, err := NewPCM(audio.Format{Codec: "pcm", BitDepth: outputBitDepth(format.BitDepth)})
	if err != nil {
		return err
	}

	data := pcm.Encode(buf.Int32Samples())
	if len(data) > math.MaxUint32-wavHeaderSize {
		return fmt.Errorf("audio too large for WAV: %d bytes", len(data))
	}

	header := wavHeader(len(data), format.SampleRate, buf.Channels(), pcm.BytesPerSample()*8)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

func wavHeader(dataSize, sampleRate, channels, bitsPerSample int) []byte {
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, wavHeaderSize)

	// RIFF header
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	// fmt subchunk
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitsPerSample))

	// data subchunk
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	return header
}
