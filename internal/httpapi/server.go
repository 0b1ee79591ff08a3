// Package httpapi is the thin JSON transport over the record service. It
// plays the "external caller" role: it decodes already-shaped maps, hands
// them to the service and serializes the results.
package httpapi

import (
	"net/http"
	"time"

	"costbook/internal/service"
)

type Server struct {
	svc *service.RecordService
}

// NewServer wires the routes and middleware and returns a configured
// http.Server ready for ListenAndServe.
func NewServer(addr string, svc *service.RecordService) *http.Server {
	s := &Server{svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/records/query", s.handleQuery)
	mux.HandleFunc("/api/records", s.handleRecords)

	return &http.Server{
		Addr:           addr,
		Handler:        withRequestID(withLogging(mux)),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
