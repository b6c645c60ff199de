// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the sample buffer and format types shared by the
// decoders, encoders, the rate-change engine and playback.
//
// This package defines:
//   - Format: describes an audio stream (codec, sample rate, channels, bit depth)
//   - Buffer: an immutable-shape block of interleaved float32 frames
//
// It also provides conversions between integer PCM and normalized floats:
//   - 16-bit ↔ 24-bit conversions
//   - int32 ↔ packed byte conversions
//   - 24-bit int32 ↔ float32 in [-1, 1)
//
// Example:
//
//	buf, err := audio.FromInterleaved([]float32{0, 0.5, -0.5, 1}, 2)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(buf.Frames(), buf.Channels()) // 2 2
package audio
