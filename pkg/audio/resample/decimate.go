// ABOUTME: Block-mean decimation
// ABOUTME: Shrinks a buffer by averaging contiguous frame windows
package resample

import (
	"fmt"
	"math"

	"github.com/audiolab/ratechange/pkg/audio"
)

// Decimate shrinks buf to floor(N/factor) frames, factor >= 1.
// Output frame i is the per-channel mean of source frames
// [floor(i*factor), floor((i+1)*factor)). Frames past the last whole
// window are dropped.
func Decimate(buf *audio.Buffer, factor float64) (*audio.Buffer, error) {
	if !validFactor(factor) || factor < 1 {
		return nil, fmt.Errorf("%w: decimation needs factor >= 1, got %v", ErrInvalidFactor, factor)
	}

	frames := buf.Frames()
	channels := buf.Channels()
	newLen := DecimatedLen(frames, factor)

	out := audio.NewBuffer(newLen, channels)
	sums := make([]float64, channels)

	for i := 0; i < newLen; i++ {
		start, end := window(i, factor, frames)

		for ch := range sums {
			sums[ch] = 0
		}
		for j := start; j < end; j++ {
			for ch := 0; ch < channels; ch++ {
				sums[ch] += float64(buf.At(j, ch))
			}
		}

		count := float64(end - start)
		for ch := 0; ch < channels; ch++ {
			out.Set(i, ch, float32(sums[ch]/count))
		}
	}

	return out, nil
}

// DecimatedLen returns the frame count Decimate produces for the given input length
func DecimatedLen(frames int, factor float64) int {
	return int(math.Floor(float64(frames) / factor))
}

// window returns the source frame range averaged into output frame i
func window(i int, factor float64, frames int) (start, end int) {
	start = int(math.Floor(float64(i) * factor))
	end = int(math.Floor(float64(i+1) * factor))
	if end > frames {
		end = frames
	}
	// factor >= 1 keeps windows non-empty; guard against float rounding
	if end <= start {
		end = start + 1
	}
	return start, end
}
