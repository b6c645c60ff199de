// ABOUTME: Linear-interpolation expansion
// ABOUTME: Grows a buffer by sampling an even index grid over the source
package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/audiolab/ratechange/pkg/audio"
)

// ErrInvalidLength is returned when a negative target length is requested
var ErrInvalidLength = errors.New("invalid target length")

// maxSamples bounds the output allocation below the runtime's slice limit
var maxSamples = math.Min(float64(math.MaxInt)/4, 1<<46)

// Expand grows buf to round(N/factor) frames, 0 < factor <= 1.
func Expand(buf *audio.Buffer, factor float64) (*audio.Buffer, error) {
	if !validFactor(factor) || factor > 1 {
		return nil, fmt.Errorf("%w: expansion needs 0 < factor <= 1, got %v", ErrInvalidFactor, factor)
	}
	return ExpandStretch(buf, 1/factor)
}

// ExpandStretch grows buf to round(N*stretch) frames, stretch >= 1.
func ExpandStretch(buf *audio.Buffer, stretch float64) (*audio.Buffer, error) {
	newLen, err := expandedLen(buf.Frames(), buf.Channels(), stretch)
	if err != nil {
		return nil, err
	}
	return ExpandTo(buf, newLen)
}

// ExpandedLen returns the frame count Expand produces for the given input length
func ExpandedLen(frames int, factor float64) (int, error) {
	if !validFactor(factor) || factor > 1 {
		return 0, fmt.Errorf("%w: expansion needs 0 < factor <= 1, got %v", ErrInvalidFactor, factor)
	}
	return ExpandedLenStretch(frames, 1/factor)
}

// ExpandedLenStretch returns round(frames*stretch), the frame count
// ExpandStretch produces for a mono buffer
func ExpandedLenStretch(frames int, stretch float64) (int, error) {
	return expandedLen(frames, 1, stretch)
}

func expandedLen(frames, channels int, stretch float64) (int, error) {
	if !validFactor(stretch) || stretch < 1 {
		return 0, fmt.Errorf("%w: expansion needs stretch >= 1, got %v", ErrInvalidFactor, stretch)
	}
	n := math.Round(float64(frames) * stretch)
	if n*float64(channels) > maxSamples {
		return 0, fmt.Errorf("%w: stretch %v of %d frames needs %.0f samples", ErrInvalidFactor, stretch, frames, n*float64(channels))
	}
	return int(n), nil
}

// ExpandTo resamples buf onto newLen points spread evenly over [0, N-1].
// The first and last output frames equal the first and last source frames.
// A single source frame is repeated; an empty source yields an empty buffer.
func ExpandTo(buf *audio.Buffer, newLen int) (*audio.Buffer, error) {
	if newLen < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, newLen)
	}

	frames := buf.Frames()
	channels := buf.Channels()
	if frames == 0 {
		return audio.NewBuffer(0, channels), nil
	}

	out := audio.NewBuffer(newLen, channels)
	last := frames - 1

	for j := 0; j < newLen; j++ {
		idx := gridIndex(j, newLen, last)
		lo := int(math.Floor(idx))
		frac := idx - float64(lo)
		if lo >= last {
			lo, frac = last, 0
		}

		for ch := 0; ch < channels; ch++ {
			a := buf.At(lo, ch)
			if frac == 0 {
				out.Set(j, ch, a)
				continue
			}
			b := buf.At(lo+1, ch)
			v := float64(a) + frac*(float64(b)-float64(a))
			out.Set(j, ch, float32(v))
		}
	}

	return out, nil
}

// gridIndex returns the source position of target point j on a grid of
// points spanning [0, last]. The final point lands exactly on last.
func gridIndex(j, points, last int) float64 {
	if points <= 1 {
		return 0
	}
	return float64(j*last) / float64(points-1)
}
