// ABOUTME: Rate-change package for speeding up and slowing down sample buffers
// ABOUTME: Block-mean decimation to shrink, linear interpolation to grow
// Package resample changes the length of a sample buffer while the sample
// rate stays fixed, which changes playback speed and pitch together.
//
// A factor is the ratio of original duration to new duration:
//   - factor > 1 shrinks the buffer by averaging contiguous blocks (Decimate)
//   - 0 < factor < 1 grows it by interpolating over an even index grid (Expand)
//   - factor == 1 copies it
//
// Every channel is processed with the same window boundaries or index grid,
// so frames stay aligned across channels.
//
// Example:
//
//	res, err := resample.Apply(buf, 1.5)
//	if errors.Is(err, resample.ErrInvalidFactor) {
//	    // factor <= 0
//	}
//	summary := res.Summary(44100)
package resample
