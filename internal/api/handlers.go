package api

import (
	"encoding/json"
	"net/http"

	"diagramkit/pkg/buildinfo"
	"diagramkit/pkg/errors"
	"diagramkit/pkg/pipeline"
	"diagramkit/pkg/scan"
)

// =============================================================================
// Request / Response Shapes
// =============================================================================

type scanRequest struct {
	Content   string `json:"content"`
	Container string `json:"container,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

type scanResponse struct {
	Segments []pipeline.Segment `json:"segments"`
	Stats    statsResponse      `json:"stats"`
}

type statsResponse struct {
	Blocks      int   `json:"blocks"`
	Diagrams    int   `json:"diagrams"`
	Translated  int   `json:"translated"`
	ScanMS      int64 `json:"scan_ms"`
	TranslateMS int64 `json:"translate_ms"`
}

type translateRequest struct {
	Source string `json:"source"`
}

type translateResponse struct {
	Description string   `json:"description"`
	Warnings    []string `json:"warnings,omitempty"`
}

type renderRequest struct {
	Source   string `json:"source"`
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := pipeline.Options{
		Container: scan.Container(req.Container),
		Detailed:  req.Detailed,
		Logger:    s.logger,
	}
	res, err := s.runner.Execute(r.Context(), req.Content, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Segments: res.Segments,
		Stats: statsResponse{
			Blocks:      res.Stats.BlockCount,
			Diagrams:    res.Stats.DiagramCount,
			Translated:  res.Stats.TranslatedCount,
			ScanMS:      res.Stats.ScanTime.Milliseconds(),
			TranslateMS: res.Stats.TranslateTime.Milliseconds(),
		},
	})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decode(w, r, &req) {
		return
	}

	desc, warnings, err := s.runner.Translate(r.Context(), req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{Description: desc, Warnings: warnings})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}

	opts := pipeline.Options{Detailed: req.Detailed, Logger: s.logger}
	data, info, err := s.runner.Preview(r.Context(), req.Source, req.Format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch req.Format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if info.PreviewHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into dst, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err,
			"request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(code),
		RequestID: RequestID(r.Context()),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidContainer,
		errors.ErrCodeInvalidDialect, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
