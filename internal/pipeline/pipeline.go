// ABOUTME: End-to-end rate change of an audio file
// ABOUTME: Load, transform, report and save with logging and metrics
package pipeline

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/audiolab/ratechange/internal/metrics"
	"github.com/audiolab/ratechange/internal/report"
	"github.com/audiolab/ratechange/pkg/audio/decode"
	"github.com/audiolab/ratechange/pkg/audio/encode"
	"github.com/audiolab/ratechange/pkg/audio/resample"
	"go.uber.org/zap"
)

// Stage names used in wrapped errors and metrics labels
const (
	StageLoad      = "load"
	StageTransform = "transform"
	StageReport    = "report"
	StageSave      = "save"
)

const (
	DefaultOutputName = "new_file"
	DefaultFormat     = "wav"
)

// Job describes one rate change
type Job struct {
	Input      string  // Source audio file
	Factor     float64 // >1 speeds up, <1 slows down
	SaveDir    string  // Empty skips saving
	OutputName string  // Base file name without extension
	Format     string  // Output container: wav or flac
	BitDepth   int     // Output depth; 0 keeps the source depth
	GraphDir   string  // Empty skips report files
	Chart      report.Options
}

// Outcome is everything a run produced
type Outcome struct {
	Track      *decode.Track
	Result     *resample.Result
	Summary    resample.Summary
	OutputPath string
	Report     *report.Files
}

// Runner executes jobs
type Runner struct {
	logger *zap.Logger
}

// New creates a runner. A nil logger discards output.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// SlowDownFactor converts "play g times slower" into a rate-change factor
func SlowDownFactor(g float64) (float64, error) {
	if !(g > 0) || math.IsInf(g, 0) {
		return 0, fmt.Errorf("%w: slow-down multiplier %v", resample.ErrInvalidFactor, g)
	}
	return 1 / g, nil
}

// OutputPath returns where job writes its result, or "" when saving is off
func (j Job) OutputPath() string {
	if j.SaveDir == "" {
		return ""
	}
	name := j.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	format := strings.ToLower(j.Format)
	if format == "" {
		format = DefaultFormat
	}
	return filepath.Join(j.SaveDir, name+"."+format)
}

// Run loads job.Input, changes its rate and writes the requested outputs
func (r *Runner) Run(ctx context.Context, job Job) (*Outcome, error) {
	// Reject bad factors before touching the file system
	if _, err := resample.Plan(job.Factor); err != nil {
		metrics.ErrorsTotal.WithLabelValues(StageTransform).Inc()
		return nil, err
	}

	outputPath := job.OutputPath()
	if outputPath != "" {
		if _, err := encode.ForExtension(filepath.Ext(outputPath)); err != nil {
			metrics.ErrorsTotal.WithLabelValues(StageSave).Inc()
			return nil, fmt.Errorf("%s: %w", StageSave, err)
		}
	}

	start := time.Now()
	track, err := decode.Open(job.Input)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(StageLoad).Inc()
		return nil, fmt.Errorf("%s: %w", StageLoad, err)
	}
	observeStage(StageLoad, start)

	r.logger.Info("audio loaded",
		zap.String("file", job.Input),
		zap.Int("frames", track.Buffer.Frames()),
		zap.Int("channels", track.Buffer.Channels()),
		zap.Int("sample_rate", track.Format.SampleRate),
		zap.Duration("duration", track.Buffer.Duration(track.Format.SampleRate)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.Transform(ctx, track, job.Factor)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Track:   track,
		Result:  result,
		Summary: result.Summary(track.Format.SampleRate),
	}

	if job.GraphDir != "" {
		start = time.Now()
		files, err := report.WriteFiles(job.GraphDir, out.Summary, job.Input, job.Chart)
		if err != nil {
			metrics.ErrorsTotal.WithLabelValues(StageReport).Inc()
			return nil, fmt.Errorf("%s: %w", StageReport, err)
		}
		observeStage(StageReport, start)
		out.Report = files
		r.logger.Info("report written",
			zap.String("run_id", files.RunID),
			zap.String("chart", files.Chart),
			zap.String("summary", files.Summary))
	}

	if outputPath != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start = time.Now()
		format := track.Format
		if job.BitDepth != 0 {
			format.BitDepth = job.BitDepth
		}
		if err := encode.Save(outputPath, result.Buffer, format); err != nil {
			metrics.ErrorsTotal.WithLabelValues(StageSave).Inc()
			return nil, fmt.Errorf("%s: %w", StageSave, err)
		}
		observeStage(StageSave, start)
		out.OutputPath = outputPath
		r.logger.Info("audio saved", zap.String("file", outputPath))
	}

	return out, nil
}

// Transform applies factor to a decoded track and records metrics
func (r *Runner) Transform(ctx context.Context, track *decode.Track, factor float64) (*resample.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := resample.Apply(track.Buffer, factor)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(StageTransform).Inc()
		return nil, err
	}

	kind := result.Op.Kind().String()
	elapsed := time.Since(start)
	metrics.TransformsTotal.WithLabelValues(kind).Inc()
	metrics.TransformLatency.WithLabelValues(kind).Observe(float64(elapsed.Milliseconds()))
	metrics.FramesProcessedTotal.Add(float64(result.OriginalFrames))
	metrics.FramesProducedTotal.Add(float64(result.ResultFrames))

	r.logger.Info("rate changed",
		zap.Stringer("op", result.Op),
		zap.Int("original_frames", result.OriginalFrames),
		zap.Int("result_frames", result.ResultFrames),
		zap.Int("sample_rate", track.Format.SampleRate),
		zap.Duration("result_duration", result.Buffer.Duration(track.Format.SampleRate)),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

func observeStage(stage string, start time.Time) {
	metrics.StageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}

// Describe returns a one-line human summary of an outcome
func Describe(o *Outcome) string {
	s := o.Summary
	return fmt.Sprintf("%s: %d -> %d frames at %d Hz (%s -> %s)",
		o.Result.Op, s.OriginalFrames, s.ResultFrames, s.SampleRate,
		report.FormatDuration(s.OriginalDuration()), report.FormatDuration(s.ResultDuration()))
}
