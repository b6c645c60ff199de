// ABOUTME: HTTP handlers for rate changes and health
// ABOUTME: Decode upload, transform, encode response with summary headers
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/audiolab/ratechange/internal/report"
	"github.com/audiolab/ratechange/pkg/audio/decode"
	"github.com/audiolab/ratechange/pkg/audio/encode"
	"github.com/audiolab/ratechange/pkg/audio/resample"
	"go.uber.org/zap"
)

// Response headers describing a rate change
const (
	HeaderOriginalFrames = "X-Original-Frames"
	HeaderResultFrames   = "X-Result-Frames"
	HeaderSampleRate     = "X-Sample-Rate"
)

// contentTypes maps upload media types to decoder extensions
var contentTypes = map[string]string{
	"audio/wav":      ".wav",
	"audio/wave":     ".wav",
	"audio/x-wav":    ".wav",
	"audio/vnd.wave": ".wav",
	"audio/flac":     ".flac",
	"audio/x-flac":   ".flac",
	"audio/mpeg":     ".mp3",
	"audio/mp3":      ".mp3",
}

// outputTypes maps encoder extensions to response media types
var outputTypes = map[string]string{
	".wav":  "audio/wav",
	".flac": "audio/flac",
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleRateChange handles POST /v1/ratechange.
// Responds with the transformed audio in the requested format.
func (s *Server) handleRateChange(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.DefaultFormat
	}
	ext := "." + strings.TrimPrefix(format, ".")
	enc, err := encode.ForExtension(ext)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	track, result, ok := s.process(w, r)
	if !ok {
		return
	}

	var body bytes.Buffer
	if err := enc.Encode(&body, result.Buffer, track.Format); err != nil {
		s.logger.Error("encode failed", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
		s.writeError(w, r, http.StatusInternalServerError, errors.New("failed to encode result"))
		return
	}

	h := w.Header()
	setSummaryHeaders(h, result, track.Format.SampleRate)
	h.Set("Content-Type", outputTypes[enc.Extension()])
	h.Set("Content-Length", strconv.Itoa(body.Len()))
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, pipeline.DefaultOutputName, enc.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(body.Bytes())
}

// handleSummary handles POST /v1/ratechange/summary.
// Runs the transform and returns only the JSON summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	track, result, ok := s.process(w, r)
	if !ok {
		return
	}

	rec := report.NewRecord(result.Summary(track.Format.SampleRate), track.Title)
	setSummaryHeaders(w.Header(), result, track.Format.SampleRate)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// process parses the factor, decodes the upload and runs the transform.
// On failure it writes the error response and returns ok == false.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*decode.Track, *resample.Result, bool) {
	factor, err := parseFactor(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, nil, false
	}

	dec, err := inputDecoder(r)
	if err != nil {
		s.writeError(w, r, http.StatusUnsupportedMediaType, err)
		return nil, nil, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
			return nil, nil, false
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return nil, nil, false
	}

	track, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, r, http.StatusUnsupportedMediaType, err)
		return nil, nil, false
	}
	track.Title = r.URL.Query().Get("name")

	if err := s.checkResultSize(track, factor); err != nil {
		status := http.StatusRequestEntityTooLarge
		if errors.Is(err, resample.ErrInvalidFactor) && !errors.Is(err, errResultTooLarge) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return nil, nil, false
	}

	result, err := s.runner.Transform(r.Context(), track, factor)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resample.ErrInvalidFactor) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return nil, nil, false
	}

	return track, result, true
}

// errResultTooLarge marks transforms whose output exceeds MaxResultSamples
var errResultTooLarge = errors.New("result too large")

// checkResultSize rejects factors whose output would exceed the configured
// sample budget before any output is allocated
func (s *Server) checkResultSize(track *decode.Track, factor float64) error {
	op, err := resample.Plan(factor)
	if err != nil {
		return err
	}

	frames, err := op.Len(track.Buffer.Frames())
	if err != nil {
		return fmt.Errorf("%w: %w", errResultTooLarge, err)
	}

	samples := int64(frames) * int64(track.Buffer.Channels())
	if samples > s.config.MaxResultSamples {
		return fmt.Errorf("%w: %s needs %d samples, limit is %d",
			errResultTooLarge, op, samples, s.config.MaxResultSamples)
	}
	return nil
}

// parseFactor reads ?factor= or, for slowing down, ?slow=
func parseFactor(r *http.Request) (float64, error) {
	q := r.URL.Query()

	if raw := q.Get("slow"); raw != "" {
		g, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", resample.ErrInvalidFactor, raw)
		}
		return pipeline.SlowDownFactor(g)
	}

	raw := q.Get("factor")
	if raw == "" {
		return 0, fmt.Errorf("%w: factor is required", resample.ErrInvalidFactor)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", resample.ErrInvalidFactor, raw)
	}
	return f, nil
}

// inputDecoder picks a decoder from ?input= or the Content-Type header
func inputDecoder(r *http.Request) (decode.Decoder, error) {
	if input := r.URL.Query().Get("input"); input != "" {
		return decode.ForExtension("." + strings.TrimPrefix(strings.ToLower(input), "."))
	}

	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid Content-Type %q", decode.ErrUnsupportedFormat, ct)
	}
	ext, ok := contentTypes[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", decode.ErrUnsupportedFormat, mediaType)
	}
	return decode.ForExtension(ext)
}

func setSummaryHeaders(h http.Header, result *resample.Result, sampleRate int) {
	h.Set(HeaderOriginalFrames, strconv.Itoa(result.OriginalFrames))
	h.Set(HeaderResultFrames, strconv.Itoa(result.ResultFrames))
	h.Set(HeaderSampleRate, strconv.Itoa(sampleRate))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	} else {
		s.logger.Debug("request rejected", zap.Error(err), zap.Int("status", status))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error:     err.Error(),
		RequestID: RequestIDFrom(r.Context()),
	})
}
