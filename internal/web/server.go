// Package web provides the HTTP interface for the greenhouse daemon:
// a dashboard, the state and command API, and the history download.
package web

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sweeney/greenhouse/internal/state"
)

// maxCommandBytes bounds the command request body.
const maxCommandBytes = 4096

// Server serves the greenhouse UI and API.
type Server struct {
	httpServer  *http.Server
	tracker     *state.Tracker
	historyPath string
}

// New creates a Server that reads and mutates state through the given
// tracker. historyPath is the CSV file served for download; empty
// disables the endpoint.
func New(addr string, tracker *state.Tracker, historyPath string) *Server {
	s := &Server{tracker: tracker, historyPath: historyPath}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/command", s.handleCommand).Methods(http.MethodPost)
	r.HandleFunc("/history.csv", s.handleHistory).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

// handleCommand applies a sparse command document and responds with the
// resulting state. A document that cannot be parsed is ignored entirely
// (the response still carries the current state); field-level validation
// is the decoder's job, so a bad field never half-applies.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	snap := s.tracker.Snapshot()
	if cmd, err := state.DecodeCommand(body); err != nil {
		log.Printf("web: ignoring malformed command: %v", err)
	} else {
		snap = s.tracker.Apply(cmd)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.historyPath == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)
	w.Header().Set("Content-Type", "text/csv")
	http.ServeFile(w, r, s.historyPath)
}
