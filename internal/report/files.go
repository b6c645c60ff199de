// ABOUTME: Report files written next to a rate-change run
// ABOUTME: Chart text plus a JSON summary tagged with a run ID
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/audiolab/ratechange/pkg/audio/resample"
	"github.com/google/uuid"
)

const (
	ChartFile   = "audio_comparison_chart.txt"
	SummaryFile = "summary.json"
)

// Record is the JSON form of a run summary
type Record struct {
	RunID           string    `json:"run_id"`
	CreatedAt       time.Time `json:"created_at"`
	Source          string    `json:"source,omitempty"`
	OriginalFrames  int       `json:"original_frames"`
	ResultFrames    int       `json:"result_frames"`
	Factor          float64   `json:"factor"`
	SampleRate      int       `json:"sample_rate"`
	OriginalSeconds float64   `json:"original_seconds"`
	ResultSeconds   float64   `json:"result_seconds"`
	SpedUp          bool      `json:"sped_up"`
}

// NewRecord builds a Record for s with a fresh run ID
func NewRecord(s resample.Summary, source string) Record {
	return Record{
		RunID:           uuid.New().String(),
		CreatedAt:       time.Now().UTC(),
		Source:          source,
		OriginalFrames:  s.OriginalFrames,
		ResultFrames:    s.ResultFrames,
		Factor:          s.Factor,
		SampleRate:      s.SampleRate,
		OriginalSeconds: s.OriginalDuration().Seconds(),
		ResultSeconds:   s.ResultDuration().Seconds(),
		SpedUp:          s.SpedUp(),
	}
}

// Files lists what WriteFiles produced
type Files struct {
	RunID   string
	Chart   string
	Summary string
}

// WriteFiles writes the chart and JSON summary for s into dir, creating it
func WriteFiles(dir string, s resample.Summary, source string, opts Options) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	chartPath := filepath.Join(dir, ChartFile)
	if err := os.WriteFile(chartPath, []byte(Render(s, opts)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}

	rec := NewRecord(s, source)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	summaryPath := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(summaryPath, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	return &Files{RunID: rec.RunID, Chart: chartPath, Summary: summaryPath}, nil
}
