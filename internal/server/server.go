// Package server provides the HTTP server for the facepix preview and
// stats API.
package server

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/facepix/internal/feed"
	"github.com/ayusman/facepix/internal/server/api"
	"github.com/ayusman/facepix/internal/store"
)

// Config holds the server configuration.
type Config struct {
	// Feed supplies the masked preview and live stats. Optional.
	Feed *feed.Feed

	// Store supplies recorded sessions. Optional.
	Store *store.Store

	// SessionID identifies the session this process is running.
	SessionID string
}

// Server represents the HTTP server for the facepix application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register preview endpoints if a feed is configured
	if s.config.Feed != nil {
		s.mux.HandleFunc("/api/stats", s.handleStats)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Feed))
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Feed))
	}

	// Register session API if a store is configured
	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.SessionID != "" {
		response["session"] = s.config.SessionID
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleStats handles GET requests to /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.Feed.Snapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Serve accepts connections on the listener until it is closed. Binding is
// the caller's job, so address errors surface before the pipeline starts.
func (s *Server) Serve(ln net.Listener) error {
	return http.Serve(ln, s)
}
