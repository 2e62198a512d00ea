package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/actions"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxActionBytes bounds the body of POST /workspaces/{id}/actions.
const maxActionBytes = 1 << 20

// Server serves workspaces kept by a session.Manager.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager

	metrics http.Handler
	cors    bool
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams makes the Server stream from sm. The caller is expected to have
// registered sm.Listener() on the session.Manager, so that changes applied by other
// adapters reach SSE clients too.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithCORS allows cross origin requests from any origin.
func WithCORS() Option {
	return func(s *Server) {
		s.cors = true
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the workspaces of manager.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Manager: manager,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
		manager.AddChangeListener(s.Streams.Listener())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.cors {
		r.Use(enableCORS)
	}

	r.Get("/health", s.GetHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/workspaces", func(r chi.Router) {
		r.Get("/", s.ListWorkspaces)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWorkspace)
			r.Put("/", s.OpenWorkspace)
			r.Delete("/", s.DeleteWorkspace)
			r.Post("/actions", s.ApplyAction)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActionResponse is the body returned by POST /workspaces/{id}/actions.
type ActionResponse struct {
	Changed  bool             `json:"changed"`
	Snapshot *domain.Snapshot `json:"snapshot"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(mosaic.Version),
	})
}

// ListWorkspaces handles GET /workspaces.
func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"workspaces": ids})
}

// GetWorkspace handles GET /workspaces/{id}.
func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Manager.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// OpenWorkspace handles PUT /workspaces/{id}: it creates the workspace with a single
// default pane unless it already exists.
func (s *Server) OpenWorkspace(w http.ResponseWriter, r *http.Request) {
	snap, created, err := s.Manager.LoadOrStart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, snap)
}

// DeleteWorkspace handles DELETE /workspaces/{id}.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.Manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyAction handles POST /workspaces/{id}/actions.
func (s *Server) ApplyAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	action, err := actions.DecodeJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, diff, err := s.Manager.Apply(r.Context(), id, action)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Changed: diff != nil, Snapshot: snap})
}

// SubscribeEvents handles GET /workspaces/{id}/events (SSE). The first message is
// the whole workspace, every later one a diff. The optional watch parameter
// (comma separated root, focus, cache) filters the diffs.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	snap, err := s.Manager.Load(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	initial, err := json.Marshal(domain.Diff(nil, snap))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE client subscribed", "workspace_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "workspace_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// watched reports whether the encoded diff touches any field in watchList.
// Undecodable messages are always passed through.
func watched(msg string, watchList []string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(msg), &fields); err != nil {
		return true
	}
	for _, field := range watchList {
		if _, ok := fields[strings.TrimSpace(field)]; ok {
			return true
		}
	}
	return false
}

// fail maps err to a status code. Unknown workspaces are 404, malformed actions
// and invalid ids 400, anything else 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownOp),
		errors.Is(err, domain.ErrInvalidWorkspaceID),
		errors.Is(err, domain.ErrInvalidPath),
		errors.Is(err, domain.ErrInvalidAxis),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrUnknownTool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
