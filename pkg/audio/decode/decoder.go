// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all file decoders and extension lookup
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/audiolab/ratechange/pkg/audio"
)

// ErrUnsupportedFormat is returned for containers or encodings we cannot read
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Track is a fully decoded audio file
type Track struct {
	Buffer *audio.Buffer
	Format audio.Format
	Title  string
}

// Decoder decodes a complete encoded stream into a track
type Decoder interface {
	Decode(r io.Reader) (*Track, error)
}

// ForExtension returns the decoder for a file extension such as ".flac"
func ForExtension(ext string) (Decoder, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return MP3Decoder{}, nil
	case ".flac":
		return FLACDecoder{}, nil
	case ".wav", ".wave":
		return WAVDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: .mp3, .flac, .wav)", ErrUnsupportedFormat, ext)
	}
}

// Open decodes the audio file at path, choosing the decoder by extension
func Open(path string) (*Track, error) {
	dec, err := ForExtension(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	track, err := dec.Decode(f)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	track.Title = strings.TrimSuffix(filename, filepath.Ext(filename))
	return track, nil
}
