// ABOUTME: Rate-change dispatch between decimation and expansion
// ABOUTME: Defines the Op variant, Apply, and the reporting summary
package resample

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/audiolab/ratechange/pkg/audio"
)

// ErrInvalidFactor is returned for factors that are not finite and positive,
// or that fall outside the range a specific transform accepts
var ErrInvalidFactor = errors.New("invalid rate-change factor")

// Kind identifies which transform an Op runs
type Kind int

const (
	KindIdentity Kind = iota
	KindShrink
	KindGrow
)

func (k Kind) String() string {
	switch k {
	case KindShrink:
		return "shrink"
	case KindGrow:
		return "grow"
	default:
		return "identity"
	}
}

// Op is a planned rate change.
// Grow ops keep the stretch they were planned with so lengths round on N*stretch.
type Op struct {
	kind    Kind
	factor  float64
	stretch float64
}

// Shrink plans a decimation by factor (factor >= 1)
func Shrink(factor float64) Op {
	return Op{kind: KindShrink, factor: factor, stretch: 1 / factor}
}

// Grow plans an expansion that makes the buffer stretch times longer (stretch >= 1)
func Grow(stretch float64) Op {
	return Op{kind: KindGrow, factor: 1 / stretch, stretch: stretch}
}

// Identity plans a copy
func Identity() Op {
	return Op{kind: KindIdentity, factor: 1, stretch: 1}
}

// Plan chooses the transform for a factor.
// factor > 1 shrinks, factor < 1 grows, factor == 1 copies.
func Plan(factor float64) (Op, error) {
	if !validFactor(factor) {
		return Op{}, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	switch {
	case factor > 1:
		return Shrink(factor), nil
	case factor < 1:
		return Op{kind: KindGrow, factor: factor, stretch: 1 / factor}, nil
	default:
		return Identity(), nil
	}
}

// Kind returns the transform this op runs
func (o Op) Kind() Kind { return o.kind }

// Factor returns the duration ratio (original / new)
func (o Op) Factor() float64 { return o.factor }

// Stretch returns how many times longer the result is (1/Factor)
func (o Op) Stretch() float64 { return o.stretch }

// Len returns the frame count this op produces from frames input frames.
// It fails with ErrInvalidFactor when the result could not be allocated.
func (o Op) Len(frames int) (int, error) {
	switch o.kind {
	case KindShrink:
		return DecimatedLen(frames, o.factor), nil
	case KindGrow:
		return ExpandedLenStretch(frames, o.stretch)
	default:
		return frames, nil
	}
}

// Apply runs the op on buf and returns a new buffer
func (o Op) Apply(buf *audio.Buffer) (*audio.Buffer, error) {
	switch o.kind {
	case KindShrink:
		return Decimate(buf, o.factor)
	case KindGrow:
		return ExpandStretch(buf, o.stretch)
	default:
		return buf.Clone(), nil
	}
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%g)", o.kind, o.factor)
}

// Result is the outcome of a rate change
type Result struct {
	Buffer         *audio.Buffer
	Op             Op
	OriginalFrames int
	ResultFrames   int
}

// Apply changes the length of buf by factor.
// The returned buffer never aliases buf.
func Apply(buf *audio.Buffer, factor float64) (*Result, error) {
	op, err := Plan(factor)
	if err != nil {
		return nil, err
	}

	out, err := op.Apply(buf)
	if err != nil {
		return nil, err
	}

	return &Result{
		Buffer:         out,
		Op:             op,
		OriginalFrames: buf.Frames(),
		ResultFrames:   out.Frames(),
	}, nil
}

// Summary returns the reporting tuple for this result
func (r *Result) Summary(sampleRate int) Summary {
	return Summary{
		OriginalFrames: r.OriginalFrames,
		ResultFrames:   r.ResultFrames,
		Factor:         r.Op.Factor(),
		SampleRate:     sampleRate,
	}
}

// Summary carries the scalars charts and reports are built from
type Summary struct {
	OriginalFrames int     `json:"original_frames"`
	ResultFrames   int     `json:"result_frames"`
	Factor         float64 `json:"factor"`
	SampleRate     int     `json:"sample_rate"`
}

// OriginalDuration returns the source playback length
func (s Summary) OriginalDuration() time.Duration {
	return audio.Format{SampleRate: s.SampleRate}.FrameDuration(s.OriginalFrames)
}

// ResultDuration returns the transformed playback length
func (s Summary) ResultDuration() time.Duration {
	return audio.Format{SampleRate: s.SampleRate}.FrameDuration(s.ResultFrames)
}

// SpedUp reports whether the result plays faster than the source
func (s Summary) SpedUp() bool {
	return s.Factor > 1
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
