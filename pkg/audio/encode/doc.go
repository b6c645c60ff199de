// ABOUTME: Audio encoder package for writing sample buffers to files
// ABOUTME: Provides Encoder interface and implementations for WAV and FLAC
// Package encode persists sample buffers as audio files.
//
// Supports: WAV (PCM 16-bit and 24-bit), FLAC (16-bit and 24-bit)
//
// Encoders take a normalized float buffer plus the format to write, and
// quantize samples with clipping. MP3 output is not supported.
//
// Example:
//
//	err := encode.Save("out/new_file.wav", buf, audio.Format{
//	    SampleRate: 44100,
//	    BitDepth:   16,
//	})
package encode
