package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lotharelvin/ODrive/ascii"
)

// Server handles incoming HTTP requests for injecting command lines into the
// running protocol session
type Server struct {
	Logger  *slog.Logger
	Session *ascii.Session
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /command", s.handleCommand)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleCommand runs one command line through the session's interpreter and
// returns the raw response bytes
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	type CommandRequest struct {
		Line string `json:"line"`
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Line == "" {
		s.sendError(w, "'line' field is required", http.StatusBadRequest)
		return
	}

	response := s.Session.Inject(req.Line)

	s.Logger.Info("Command injected", "line", req.Line, "response_length", len(response))

	type CommandResponse struct {
		Response string `json:"response"`
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CommandResponse{Response: string(response)})
}
