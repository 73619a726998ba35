package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/log"
	"github.com/embedkit/zoom-embed/pkg/session"
)

// HTTPServer exposes the session lifecycle as a REST API.
type HTTPServer struct {
	controller *session.Controller
	feed       *EventFeed
	clientKey  string
	secret     string
	router     http.Handler
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(controller *session.Controller, feed *EventFeed, cfg *config.Config) *HTTPServer {
	server := &HTTPServer{
		controller: controller,
		feed:       feed,
		clientKey:  cfg.ClientKey,
		secret:     cfg.ClientSecret,
	}
	server.registerRoutes()
	return server
}

// ServeHTTP implements the http.Handler interface
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Infof("Received request: %s %s", r.Method, r.URL.Path)
	s.router.ServeHTTP(w, r)
}

// registerRoutes sets up the API routes
func (s *HTTPServer) registerRoutes() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/session/grid", s.handleGrid)
	mux.HandleFunc("/ws/events", s.feed.HandleConnection)
	s.router = mux
}

// handleSession dispatches on method for the /api/session endpoint
func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartSession(w, r)
	case http.MethodDelete:
		s.handleEndSession(w, r)
	case http.MethodGet:
		s.handleGetSession(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	SessionID     string                 `json:"session_id"`
	Passcode      string                 `json:"passcode"`
	UserName      string                 `json:"user_name"`
	Customization map[string]interface{} `json:"customization,omitempty"`
}

// handleStartSession starts (or replaces) the embedded session
func (s *HTTPServer) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}

	secret := req.Passcode
	if secret == "" {
		secret = s.secret
	}

	err := s.controller.StartSession(r.Context(), session.StartParams{
		SessionID:     req.SessionID,
		Secret:        secret,
		UserName:      req.UserName,
		ClientKey:     s.clientKey,
		Customization: req.Customization,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": s.controller.State().String()})
}

// handleEndSession ends the session; always succeeds.
func (s *HTTPServer) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.controller.EndSession(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "left"})
}

// handleGetSession reports the current lifecycle state
func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"state":             s.controller.State().String(),
		"grid_enabled":      s.controller.GridEnabled(),
		"participant_count": len(s.controller.Participants()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GridRequest is the request body for toggling grid mode
type GridRequest struct {
	Enabled bool `json:"enabled"`
}

// handleGrid toggles the custom participant grid
func (s *HTTPServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.controller.SetGridMode(req.Enabled)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"grid_enabled": s.controller.GridEnabled(),
	})
}

// handleHealth returns liveness plus the session state
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "ok",
		"session_state": s.controller.State().String(),
	})
}

// handleStatus reports session state plus a host load snapshot
func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"session_state":     s.controller.State().String(),
		"grid_enabled":      s.controller.GridEnabled(),
		"participant_count": len(s.controller.Participants()),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		response["mem_used_percent"] = vm.UsedPercent
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		response["cpu_percent"] = pct[0]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
