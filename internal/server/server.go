package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the metric registry over HTTP: /metrics serves the text
// exposition, /healthz answers liveness probes. The exposed endpoint is
// unauthenticated and intended to bind to a local or otherwise trusted
// address.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// New creates a Server for addr. Call Listen to bind, then Run to serve.
// metricsHandler is the registry's exposition handler.
func New(addr string, metricsHandler http.Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/healthz", healthz)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Handler returns the server's route mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Listen binds the configured address. Calling it separately from Run lets
// startup treat a bind failure as fatal while later serve errors stay on
// the graceful path.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
// Empty before Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Run serves until ctx is cancelled, then shuts down gracefully. It binds
// first when Listen has not been called. http.ErrServerClosed from a clean
// shutdown is not an error.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server listening", "addr", s.Addr())
		if err := s.srv.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
