// Package health serves the liveness endpoint used by platform health checks.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Body is the static response for every liveness check.
const Body = "Background worker is running.\n"

// Handler returns the liveness router.
func Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", alive).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", alive).Methods(http.MethodGet, http.MethodHead)
	return r
}

func alive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Body))
}

// Server is the liveness HTTP server.
type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// NewServer creates a liveness server listening on addr.
func NewServer(addr string, log zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server running")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
