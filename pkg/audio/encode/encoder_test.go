// ABOUTME: Round-trip tests for file encoders
// ABOUTME: Encodes buffers and reads them back with the decode package
package encode

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/ratechange/pkg/audio"
	"github.com/audiolab/ratechange/pkg/audio/decode"
)

func stereoTestBuffer(t *testing.T, frames int) *audio.Buffer {
	t.Helper()
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := range left {
		// exact in 16-bit: multiples of 1/256
		left[i] = float32(i%256-128) / 256
		right[i] = -left[i]
	}
	buf, err := audio.FromChannels([][]float32{left, right})
	require.NoError(t, err)
	return buf
}

func TestWAVHeader(t *testing.T) {
	var out bytes.Buffer
	buf := audio.FromMono([]float32{0, 0.5})
	require.NoError(t, WAVEncoder{}.Encode(&out, buf, audio.Format{SampleRate: 22050, BitDepth: 16}))

	data := out.Bytes()
	require.Len(t, data, 44+4)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(36+4), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, int16(16384), int16(binary.LittleEndian.Uint16(data[46:48])))
}

func TestWAVRoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24} {
		buf := stereoTestBuffer(t, 1000)

		var out bytes.Buffer
		require.NoError(t, WAVEncoder{}.Encode(&out, buf, audio.Format{SampleRate: 44100, BitDepth: depth}))

		track, err := decode.WAVDecoder{}.Decode(&out)
		require.NoError(t, err)
		assert.Equal(t, depth, track.Format.BitDepth)
		assert.Equal(t, 2, track.Format.Channels)
		assert.Equal(t, buf.Interleaved(), track.Buffer.Interleaved())
	}
}

func TestWAVClipsOutOfRange(t *testing.T) {
	var out bytes.Buffer
	buf := audio.FromMono([]float32{2, -2})
	require.NoError(t, WAVEncoder{}.Encode(&out, buf, audio.Format{SampleRate: 8000, BitDepth: 16}))

	data := out.Bytes()[44:]
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(data[0:])))
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(data[2:])))
}

func TestFLACRoundTrip(t *testing.T) {
	// more than one block, last block partial
	buf := stereoTestBuffer(t, flacBlockSize*2+100)

	var out bytes.Buffer
	require.NoError(t, FLACEncoder{}.Encode(&out, buf, audio.Format{SampleRate: 48000, BitDepth: 16}))

	track, err := decode.FLACDecoder{}.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, 48000, track.Format.SampleRate)
	assert.Equal(t, 16, track.Format.BitDepth)
	assert.Equal(t, buf.Frames(), track.Buffer.Frames())
	assert.Equal(t, buf.Interleaved(), track.Buffer.Interleaved())
}

func TestEncodeRejectsBadSampleRate(t *testing.T) {
	var out bytes.Buffer
	buf := audio.FromMono([]float32{0})
	assert.Error(t, WAVEncoder{}.Encode(&out, buf, audio.Format{}))
	assert.Error(t, FLACEncoder{}.Encode(&out, buf, audio.Format{}))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path := filepath.Join(dir, "new_file.wav")
	buf := stereoTestBuffer(t, 10)

	require.NoError(t, Save(path, buf, audio.Format{SampleRate: 16000, BitDepth: 16}))

	track, err := decode.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 10, track.Buffer.Frames())
	assert.Equal(t, "new_file", track.Title)
}

func TestSaveUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new_file.mp3")
	err := Save(path, audio.FromMono([]float32{0}), audio.Format{SampleRate: 8000})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestForExtension(t *testing.T) {
	enc, err := ForExtension(".FLAC")
	require.NoError(t, err)
	assert.Equal(t, ".flac", enc.Extension())

	enc, err = ForExtension(".wav")
	require.NoError(t, err)
	assert.Equal(t, ".wav", enc.Extension())
}
