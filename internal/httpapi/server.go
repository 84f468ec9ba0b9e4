// Package httpapi exposes interviews over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/dialogue"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

// ControllerFactory creates the controller for a new interview.
type ControllerFactory func() *dialogue.Controller

type Server struct {
	sessions      *Registry
	newController ControllerFactory
	gatherer      prometheus.Gatherer
	logger        *zap.Logger
}

func New(sessions *Registry, newController ControllerFactory, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		sessions:      sessions,
		newController: newController,
		gatherer:      gatherer,
		logger:        log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Post("/v1/sessions/{id}/messages", s.handleMessage)
	r.Post("/v1/sessions/{id}/restart", s.handleRestart)
	r.Get("/v1/sessions/{id}/transcript", s.handleTranscript)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type replyResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Phase     dialogue.Phase `json:"phase"`
	Ended     bool           `json:"ended"`
	Progress  float64        `json:"progress"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	ctrl := s.newController()
	reply := ctrl.Start()
	id := s.sessions.Add(ctrl)

	logger.WithSession(s.logger, id).Info("session created")
	respondJSON(w, http.StatusCreated, toResponse(id, reply, ctrl.Progress()))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	reply := ctrl.Handle(r.Context(), req.Text)
	respondJSON(w, http.StatusOK, toResponse(ctrl.ID(), reply, ctrl.Progress()))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	oldID := strings.TrimSpace(chi.URLParam(r, "id"))

	ctrl, reply, err := s.sessions.Restart(oldID)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	newID := ctrl.ID()
	logger.WithSession(s.logger, newID).Info("session restarted", zap.String("previous_session_id", oldID))
	respondJSON(w, http.StatusCreated, toResponse(newID, reply, ctrl.Progress()))
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.lookup(w, r)
	if !ok {
		return
	}

	data, err := ctrl.Export()
	if errors.Is(err, dialogue.ErrNotEnded) {
		respondError(w, http.StatusConflict, "interview_in_progress", err.Error())
		return
	}
	if err != nil {
		s.logger.Error("failed to export transcript", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "export_failed", "transcript could not be rendered")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ctrl.ExportFilename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*dialogue.Controller, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return nil, false
	}

	ctrl, err := s.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return nil, false
	}
	return ctrl, true
}

func toResponse(id string, reply dialogue.Reply, progress float64) replyResponse {
	return replyResponse{
		SessionID: id,
		Reply:     reply.Text,
		Phase:     reply.Phase,
		Ended:     reply.Ended,
		Progress:  progress,
	}
}

var errEmptyBody = errors.New("request body is empty")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
