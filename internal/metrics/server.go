package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the scrape endpoint and liveness probe described in
// spec §6 ("HTTP surface"), grounded on the teacher's axum router in
// original_source/crates/operator/src/main.rs reimplemented with
// gorilla/mux, the HTTP router already in the teacher's dependency stack.
type Server struct {
	httpServer *http.Server
}

// NewServer builds an HTTP server bound to addr (default "0.0.0.0:8080")
// serving /metrics from reg and /health as a bare liveness probe.
func NewServer(addr string, reg *Registry) *Server {
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Run listens and serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Addr returns the configured listen address. For an address with port 0
// it is that configured string, not the ephemeral port actually bound.
func (s *Server) Addr() string { return s.httpServer.Addr }
