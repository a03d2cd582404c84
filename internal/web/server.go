package web

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/example/aoc2019/internal/observability"
	"github.com/example/aoc2019/internal/service"
	"github.com/example/aoc2019/internal/storage"
	"github.com/example/aoc2019/pkg/logger"
)

// Server is the web API server.
type Server struct {
	addr    string
	router  *httprouter.Router
	metrics *observability.Metrics
	log     logger.Logger
	httpSrv *http.Server
}

// NewServer creates a new web server. metrics may be nil.
func NewServer(addr string, gate *service.GateService, store storage.Storage, metrics *observability.Metrics, log logger.Logger) *Server {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		addr:    addr,
		router:  httprouter.New(),
		metrics: metrics,
		log:     log.Named("web"),
	}
	s.setupRoutes(NewHandlers(gate, store, s.log))
	return s
}

func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/api/health", s.instrument("GET /api/health", h.Health))
	s.router.GET("/api/runs", s.instrument("GET /api/runs", h.ListRuns))
	s.router.POST("/api/runs", s.instrument("POST /api/runs", h.EnqueueRun))
	s.router.GET("/api/runs/:id", s.instrument("GET /api/runs/:id", h.GetRun))
	s.router.POST("/api/runs/:id/cancel", s.instrument("POST /api/runs/:id/cancel", h.CancelRun))
	s.router.POST("/api/events/push", s.instrument("POST /api/events/push", h.PushEvent))
	s.router.Handler(http.MethodGet, "/api/metrics", s.metrics)

	s.router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
	})
}

// instrument wraps a handler with CORS headers, request logging, and
// per-route metrics.
func (s *Server) instrument(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		setCORSHeaders(w)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, ps)
		elapsed := time.Since(start)

		s.metrics.APIRequests().WithLabels(route).Inc()
		s.metrics.APIRequestDuration().WithLabels(route).Observe(elapsed)
		s.log.Debugf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Microsecond))
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Infof("listening on %s", s.addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}
