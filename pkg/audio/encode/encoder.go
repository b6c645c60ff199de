// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for file encoders and extension lookup
package encode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/audiolab/ratechange/pkg/audio"
)

// ErrUnsupportedFormat is returned for output formats we cannot write
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Encoder writes a complete buffer in some container format
type Encoder interface {
	// Encode writes buf to w at format.SampleRate and format.BitDepth
	Encode(w io.Writer, buf *audio.Buffer, format audio.Format) error

	// Extension returns the file extension this encoder writes, with the dot
	Extension() string
}

// ForExtension returns the encoder for a file extension such as ".wav"
func ForExtension(ext string) (Encoder, error) {
	switch strings.ToLower(ext) {
	case ".wav", ".wave":
		return WAVEncoder{}, nil
	case ".flac":
		return FLACEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: .wav, .flac)", ErrUnsupportedFormat, ext)
	}
}

// Save encodes buf into path, creating parent directories as needed
func Save(path string, buf *audio.Buffer, format audio.Format) error {
	enc, err := ForExtension(filepath.Ext(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := enc.Encode(f, buf, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outputBitDepth picks the integer depth to write: 24 for hi-res sources, else 16
func outputBitDepth(bitDepth int) int {
	if bitDepth >= 24 {
		return 24
	}
	return 16
}
