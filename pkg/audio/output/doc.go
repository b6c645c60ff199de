// ABOUTME: Audio output package for previewing buffers
// ABOUTME: Provides Output interface and an oto implementation
// Package output plays sample buffers on the default audio device.
//
// The oto backend converts buffers to 16-bit PCM and streams them through
// a pipe into a single persistent player. Software volume and mute are
// applied before conversion.
//
// Example:
//
//	out := output.NewOto()
//	err := output.Play(out, buf, 44100)
package output
