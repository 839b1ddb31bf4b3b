// Package server exposes the assistant over HTTP. The handlers are a thin
// front end: one question in, one terminal rendering out — either the
// error rendering or the success rendering, never both.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"salesiq/internal/pipeline"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Submitter drives one question through the pipeline.
type Submitter interface {
	Submit(ctx context.Context, question string) (*pipeline.State, error)
}

// Server wraps the chi router and the pipeline.
type Server struct {
	submitter Submitter
	log       *zap.Logger
	router    chi.Router
}

// New builds the HTTP surface.
func New(submitter Submitter, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{submitter: submitter, log: log}

	r := chi.NewRouter()
	r.Post("/ask", s.handleAsk)
	r.Get("/healthz", s.handleHealthz)
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the wire shape of a terminal pipeline state. Exactly one
// of Error, Rows, or Answer carries the rendering.
type askResponse struct {
	Intent  string   `json:"intent,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty"`
	Answer  string   `json:"answer,omitempty"`
	Error   string   `json:"error,omitempty"`

	DurationMs int64 `json:"durationMs"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, askResponse{Error: "invalid JSON body"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		respondJSON(w, http.StatusBadRequest, askResponse{Error: "question is required"})
		return
	}

	start := time.Now()
	state, err := s.submitter.Submit(r.Context(), question)
	if err != nil {
		// Provider or store fault: opaque failure, nothing rendered.
		s.log.Error("pipeline fault", zap.String("question", question), zap.Error(err))
		respondJSON(w, http.StatusBadGateway, askResponse{
			Error:      err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		return
	}

	resp := askResponse{
		Intent:     string(state.Intent),
		DurationMs: time.Since(start).Milliseconds(),
	}
	switch {
	case state.Failed():
		resp.Error = state.Err
	case state.Intent == pipeline.IntentFactSQL:
		resp.Columns = state.Results.Columns
		resp.Rows = state.Results.Rows
	case state.Intent == pipeline.IntentSummary:
		resp.Answer = state.FinalAnswer
	}
	// Unknown intents fall through with neither rows nor answer.
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
