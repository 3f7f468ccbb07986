// Package httpapi exposes the public feed API plus health, readiness, and
// metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riserlabs/hazard-feed/internal/alert"
	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/hub"
)

// AlertDispatcher sends an alert over the configured channels and reports how
// many accepted it.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, a alert.Alert) int
}

// Server serves the hazard feed HTTP API.
type Server struct {
	httpServer *http.Server
	hub        *hub.Hub
	dispatcher AlertDispatcher
	logger     *slog.Logger
}

// NewServer wires all routes. The hub doubles as the readiness source: the
// service is ready once every category has published at least once.
func NewServer(addr string, h *hub.Hub, dispatcher AlertDispatcher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// No WriteTimeout: /api/stream holds its connection open.
			IdleTimeout: 60 * time.Second,
		},
		hub:        h,
		dispatcher: dispatcher,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	mux.HandleFunc("GET /api/{category}", s.handleCategory)
	mux.HandleFunc("POST /alert", s.handleAlert)
	mux.HandleFunc("POST /alert/notify", s.handleAlertNotify)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.hub.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat := domain.Category(r.PathValue("category"))
	if !cat.Valid() {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("unknown category %q", cat),
		})
		return
	}

	snapshot, ok := s.hub.Latest(cat)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("no %s data published yet", cat),
		})
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	all, lastUpdated := s.hub.All()
	if len(all) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no data published yet",
		})
		return
	}

	body := make(map[string]any, len(all)+1)
	for cat, snapshot := range all {
		body[string(cat)] = snapshot
	}
	body["lastUpdated"] = lastUpdated.UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, body)
}

// handleStream serves server-sent events: the cached snapshots replay first,
// then live updates follow until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := s.hub.Subscribe(hub.DefaultBuffer)
	defer s.hub.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-sub.Updates():
			if !open {
				return
			}
			if err := writeEvent(w, snapshot); err != nil {
				s.logger.Debug("stream client write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// alertRequest is the /alert payload: a full alert, or the short
// location-plus-message form.
type alertRequest struct {
	alert.Alert
	Location string `json:"location"`
}

func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid alert payload: " + err.Error(),
		})
		return
	}

	a := req.Alert
	if req.Location != "" {
		a.Areas = append(a.Areas, req.Location)
	}
	if a.Category != "" && !a.Category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unknown category %q", a.Category),
		})
		return
	}
	if a.Title == "" && a.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "alert requires a title or message",
		})
		return
	}

	delivered := s.dispatcher.Dispatch(r.Context(), a)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "dispatched",
		"delivered": delivered,
	})
}

// notifyRequest optionally targets a notification at one recipient, area,
// and severity. All fields default to the current flood snapshot's values.
type notifyRequest struct {
	RecipientID string          `json:"recipientId"`
	Area        string          `json:"area"`
	Severity    domain.RiskTier `json:"severity"`
}

// handleAlertNotify pushes the current flood state to the configured
// recipients regardless of tier, for operator-triggered notifications.
func (s *Server) handleAlertNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid notify payload: " + err.Error(),
		})
		return
	}
	if req.Severity != "" && !req.Severity.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unknown severity %q", req.Severity),
		})
		return
	}

	snapshot, ok := s.hub.Latest(domain.CategoryFlood)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no flood data published yet",
		})
		return
	}

	a := alert.FromSnapshot(snapshot)
	if req.Area != "" {
		a.Areas = []string{req.Area}
	}
	if req.Severity != "" {
		a.Severity = req.Severity
		a.Title = fmt.Sprintf("%s risk is %s", a.Category, a.Severity)
	}
	if req.RecipientID != "" {
		a.Recipients = []alert.Recipient{{Name: req.RecipientID}}
	}

	delivered := s.dispatcher.Dispatch(r.Context(), a)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "dispatched",
		"delivered": delivered,
	})
}

func writeEvent(w http.ResponseWriter, snapshot domain.CategorySnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", snapshot.Category, data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
