// ABOUTME: Tests for linear-interpolation expansion
// ABOUTME: Covers grid placement, endpoints and degenerate inputs
package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/ratechange/pkg/audio"
)

func TestExpandToMidpoint(t *testing.T) {
	out, err := ExpandTo(audio.FromMono([]float32{0, 10}), 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5, 10}, out.Interleaved())
}

func TestExpandByFactor(t *testing.T) {
	out, err := Expand(audio.FromMono([]float32{0, 10}), 2.0/3.0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5, 10}, out.Interleaved())
}

func TestExpandInterpolatesRamp(t *testing.T) {
	// 4 frames onto 7 points: step 0.5 over [0, 3]
	out, err := ExpandTo(audio.FromMono([]float32{0, 2, 4, 6}), 7)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6}, out.Interleaved())
}

func TestExpandLength(t *testing.T) {
	stretches := []float64{1, 1.1, 1.5, 2, 2.3, 2.75, 4, 4.1, 10}
	for n := 1; n <= 64; n++ {
		for _, g := range stretches {
			out, err := ExpandStretch(audio.FromMono(ramp(n)), g)
			require.NoError(t, err)
			assert.Equal(t, int(math.Round(float64(n)*g)), out.Frames(), "n=%d g=%v", n, g)

			want, err := ExpandedLenStretch(n, g)
			require.NoError(t, err)
			assert.Equal(t, want, out.Frames())
		}
	}
}

func TestExpandedLenTooLarge(t *testing.T) {
	_, err := ExpandedLenStretch(1_000_000, 1e12)
	assert.ErrorIs(t, err, ErrInvalidFactor)

	_, err = ExpandedLen(1_000_000, 1e-300)
	assert.ErrorIs(t, err, ErrInvalidFactor)

	_, err = Expand(audio.FromMono(ramp(1000)), 1e-15)
	assert.ErrorIs(t, err, ErrInvalidFactor)

	_, err = ExpandStretch(audio.FromMono(ramp(4)), 0.5)
	assert.ErrorIs(t, err, ErrInvalidFactor)

	n, err := ExpandedLen(10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestExpandPreservesEndpoints(t *testing.T) {
	src := []float32{0.3, -0.7, 0.11, 0.9, -0.45}
	for newLen := 2; newLen <= 40; newLen++ {
		out, err := ExpandTo(audio.FromMono(src), newLen)
		require.NoError(t, err)
		assert.Equal(t, src[0], out.At(0, 0))
		assert.Equal(t, src[len(src)-1], out.At(newLen-1, 0), "newLen=%d", newLen)
	}
}

func TestExpandOutputIsBounded(t *testing.T) {
	src := []float32{-1, 1, -0.5, 0.25}
	out, err := Expand(audio.FromMono(src), 0.3)
	require.NoError(t, err)
	for i := 0; i < out.Frames(); i++ {
		v := out.At(i, 0)
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestExpandSingleFrameRepeats(t *testing.T) {
	buf, err := audio.FromInterleaved([]float32{0.25, -0.5}, 2)
	require.NoError(t, err)

	out, err := Expand(buf, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Frames())
	assert.Equal(t, []float32{0.25, -0.5, 0.25, -0.5, 0.25, -0.5, 0.25, -0.5}, out.Interleaved())
}

func TestExpandEmpty(t *testing.T) {
	out, err := Expand(audio.NewBuffer(0, 2), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Frames())
	assert.Equal(t, 2, out.Channels())

	out, err = ExpandTo(audio.NewBuffer(0, 1), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Frames())
}

func TestExpandToSinglePoint(t *testing.T) {
	out, err := ExpandTo(audio.FromMono([]float32{3, 4, 5}), 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, out.Interleaved())
}

func TestExpandRejectsBadInput(t *testing.T) {
	for _, f := range []float64{1.5, 0, -0.5, math.NaN()} {
		_, err := Expand(audio.FromMono(ramp(4)), f)
		assert.ErrorIs(t, err, ErrInvalidFactor, "factor=%v", f)
	}

	_, err := ExpandTo(audio.FromMono(ramp(4)), -1)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestExpandStereoSharesGrid(t *testing.T) {
	buf, err := audio.FromChannels([][]float32{
		{0, 10},
		{100, 0},
	})
	require.NoError(t, err)

	out, err := ExpandTo(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 2.5, 5, 7.5, 10}, out.Channel(0))
	assert.Equal(t, []float32{100, 75, 50, 25, 0}, out.Channel(1))
}
