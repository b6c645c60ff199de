// ABOUTME: Audio decoder package for whole-file decoding
// ABOUTME: Provides Decoder interface and implementations for WAV, FLAC, MP3
// Package decode reads encoded audio files into normalized sample buffers.
//
// Supports: WAV (PCM 16/24/32-bit, IEEE float 32-bit), FLAC, MP3
//
// All decoders implement the Decoder interface and produce a Track whose
// Buffer holds float32 samples in [-1, 1) with the file's channel layout.
//
// Example:
//
//	track, err := decode.Open("speech.flac")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(track.Format.SampleRate, track.Buffer.Frames())
package decode
