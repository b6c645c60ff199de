// ABOUTME: Tests for block-mean decimation
// ABOUTME: Covers lengths, window means, truncation and channel handling
package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/ratechange/pkg/audio"
)

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}

func TestDecimatePairs(t *testing.T) {
	buf := audio.FromMono([]float32{0, 2, 4, 6, 8, 10})

	out, err := Decimate(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 5, 9}, out.Interleaved())
}

func TestDecimateDropsTrailingPartialWindow(t *testing.T) {
	buf := audio.FromMono([]float32{0, 2, 4, 6, 100})

	out, err := Decimate(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Frames())
	assert.Equal(t, []float32{1, 5}, out.Interleaved())
}

func TestDecimateNonIntegerFactor(t *testing.T) {
	// factor 1.5 over 6 frames: windows [0,1) [1,3) [3,4) [4,6)
	buf := audio.FromMono([]float32{0, 1, 2, 3, 4, 5})

	out, err := Decimate(buf, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1.5, 3, 4.5}, out.Interleaved())
}

func TestDecimateLength(t *testing.T) {
	factors := []float64{1, 1.25, 1.5, 2, 2.5, 3, 7.3, 10, 1000}
	for n := 0; n <= 64; n++ {
		for _, f := range factors {
			out, err := Decimate(audio.FromMono(ramp(n)), f)
			require.NoError(t, err)
			assert.Equal(t, int(math.Floor(float64(n)/f)), out.Frames(), "n=%d factor=%v", n, f)
		}
	}
}

func TestDecimateFactorOneIsCopy(t *testing.T) {
	src := []float32{0.1, -0.2, 0.3}
	out, err := Decimate(audio.FromMono(src), 1)
	require.NoError(t, err)
	assert.Equal(t, src, out.Interleaved())
}

func TestDecimateToEmpty(t *testing.T) {
	buf, err := audio.FromInterleaved([]float32{1, 2, 3, 4}, 2)
	require.NoError(t, err)

	out, err := Decimate(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Frames())
	assert.Equal(t, 2, out.Channels())
}

func TestDecimateEmptyInput(t *testing.T) {
	out, err := Decimate(audio.NewBuffer(0, 1), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Frames())
}

func TestDecimateRejectsFactorBelowOne(t *testing.T) {
	for _, f := range []float64{0.5, 0, -2, math.NaN(), math.Inf(1)} {
		_, err := Decimate(audio.FromMono(ramp(4)), f)
		assert.ErrorIs(t, err, ErrInvalidFactor, "factor=%v", f)
	}
}

func TestDecimateStereoSharesWindows(t *testing.T) {
	buf, err := audio.FromChannels([][]float32{
		{0, 2, 4, 6},
		{10, 20, 30, 40},
	})
	require.NoError(t, err)

	out, err := Decimate(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Channels())
	assert.Equal(t, []float32{1, 5}, out.Channel(0))
	assert.Equal(t, []float32{15, 35}, out.Channel(1))
}

func TestDecimateLongWindowPrecision(t *testing.T) {
	// A float32 running sum would drift well past 1e-4 here
	n := 1 << 20
	src := make([]float32, n)
	for i := range src {
		src[i] = 0.1
	}

	out, err := Decimate(audio.FromMono(src), float64(n))
	require.NoError(t, err)
	require.Equal(t, 1, out.Frames())
	assert.InDelta(t, 0.1, out.At(0, 0), 1e-6)
}
