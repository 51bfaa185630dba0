package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/shopplan/internal/ctxutil"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/metrics"
)

// ActorHeader names the caller recorded in the audit log.
const ActorHeader = "X-Actor"

// Server wraps an HTTP server with planner routing.
type Server struct {
	addr    string
	handler http.Handler
	log     logger.Logger
	srv     *http.Server
}

// NewServer creates a Server bound to addr. gatherer backs /metrics; nil serves
// the default registry.
func NewServer(h *Handler, addr string, gatherer prometheus.Gatherer) *Server {
	l := h.Logger
	if l == nil {
		l = logger.NopLogger{}
	}
	return &Server{
		addr:    addr,
		handler: Routes(h, gatherer),
		log:     l,
	}
}

// Routes builds the API mux.
func Routes(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", metrics.Handler(gatherer))

	// Assignment endpoints.
	mux.HandleFunc("POST /api/assignments", h.CreateAssignment)
	mux.HandleFunc("GET /api/assignments", h.ListAssignments)
	mux.HandleFunc("DELETE /api/assignments/{id}", h.DeleteAssignment)

	// History endpoints.
	mux.HandleFunc("POST /api/history/undo", h.Undo)
	mux.HandleFunc("POST /api/history/redo", h.Redo)
	mux.HandleFunc("GET /api/history", h.History)

	// Planning endpoints.
	mux.HandleFunc("POST /api/scenarios", h.CreateScenario)
	mux.HandleFunc("GET /api/scenarios", h.ListScenarios)
	mux.HandleFunc("GET /api/scenarios/{id}", h.GetScenario)
	mux.HandleFunc("POST /api/scenarios/evaluate", h.EvaluateScenario)
	mux.HandleFunc("POST /api/scenarios/{id}/apply", h.ApplyScenario)
	mux.HandleFunc("GET /api/forecast", h.Forecast)
	mux.HandleFunc("GET /api/capacity", h.Capacity)

	return actorMiddleware(mux)
}

// actorMiddleware carries the X-Actor header into the request context.
func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
			r = r.WithContext(ctxutil.WithActorID(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

// Addr returns the listening address once Start has been called.
func (s *Server) Addr() string { return s.addr }

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()

	s.log.Infof("shopplan API listening on %s", s.addr)
	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
