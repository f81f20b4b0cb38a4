package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/metrics"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/state"
	"github.com/MikeSquared-Agency/haven/internal/store"
)

// MessageRequest is the body of POST /api/v1/sessions/{id}/messages.
type MessageRequest struct {
	Text string `json:"text"`
}

// FallbackResponse is returned when a turn could not be processed.
type FallbackResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Fallback  bool   `json:"fallback"`
}

// ReportResponse is a session's report grouped into form sections.
type ReportResponse struct {
	SessionID     string               `json:"session_id"`
	Stage         string               `json:"stage"`
	ComplexTrauma bool                 `json:"complex_trauma"`
	Sections      []report.SectionView `json:"sections"`
	Source        string               `json:"source"`
}

// postMessage handles POST /api/v1/sessions/{id}/messages
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "message too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	turn, err := s.engine.Process(r.Context(), id, req.Text)
	switch {
	case errors.Is(err, engine.ErrTurnFailed):
		metrics.RecordTurnFailed()
		writeJSON(w, http.StatusOK, FallbackResponse{SessionID: id, Response: engine.FallbackReply, Fallback: true})
		return
	case errors.Is(err, engine.ErrNoSession):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}

	s.persist(r.Context(), turn)
	writeJSON(w, http.StatusOK, turn)
}

// persist saves the session's report. Failures are logged and never reach
// the person talking to the service.
func (s *Server) persist(ctx context.Context, turn *engine.Turn) {
	if s.reports == nil {
		return
	}
	conv, ok := s.engine.Snapshot(turn.SessionID)
	if !ok {
		return
	}
	rep := store.Report{
		SessionID:     turn.SessionID,
		Fields:        conv.Accumulated,
		Stage:         string(conv.Stage),
		RiskLevel:     string(turn.RiskLevel),
		ComplexTrauma: conv.ComplexTrauma,
		Turns:         conv.Turns,
	}
	rec := store.TurnRecord{
		ResponseID:   turn.ResponseID,
		Intent:       string(turn.Intent),
		IntentSource: string(turn.IntentSource),
		RiskLevel:    string(turn.RiskLevel),
		Rule:         turn.ResponseRule,
		FieldNames:   turn.ExtractedFields.Keys(),
	}
	if _, err := s.reports.SaveTurn(ctx, rep, rec); err != nil {
		s.logger.Warn("failed to persist report", "session_id", turn.SessionID, "error", err)
	}
}

// getReport handles GET /api/v1/sessions/{id}/report
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if conv, ok := s.engine.Snapshot(id); ok {
		writeJSON(w, http.StatusOK, s.reportView(id, conv.Stage, conv.ComplexTrauma, conv.Accumulated, "session"))
		return
	}
	if s.reports == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	rep, err := s.reports.GetReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load report", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}
	writeJSON(w, http.StatusOK, s.reportView(id, state.Stage(rep.Stage), rep.ComplexTrauma, rep.Fields, "store"))
}

func (s *Server) reportView(id string, stage state.Stage, complexTrauma bool, f report.Fields, source string) ReportResponse {
	sections := s.schema.Group(f)
	if sections == nil {
		sections = []report.SectionView{}
	}
	return ReportResponse{
		SessionID:     id,
		Stage:         string(stage),
		ComplexTrauma: complexTrauma,
		Sections:      sections,
		Source:        source,
	}
}

// resetSession handles DELETE /api/v1/sessions/{id}
func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found := s.engine.Reset(id)

	if s.reports != nil {
		if err := s.reports.DeleteReport(r.Context(), id); err != nil {
			s.logger.Error("failed to delete report", "session_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not delete report")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "reset": found})
}
