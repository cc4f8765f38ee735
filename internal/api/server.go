package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/charliek/syslogdash/internal/logging"
)

// ServerConfig holds configuration for the demo collector server
type ServerConfig struct {
	Addr string // host:port; port 0 picks a free port
}

// Server serves the collector API over an in-memory Store
type Server struct {
	config     ServerConfig
	router     *chi.Mux
	httpServer *http.Server
	listener   net.Listener
	handlers   *Handlers
	logger     logging.Logger
	mu         sync.Mutex
}

// NewServer creates a new API server
func NewServer(config ServerConfig, handlers *Handlers, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		config:   config,
		router:   r,
		handlers: handlers,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

// requestLogger logs each request through the key/value logger; chi's own
// Logger middleware writes to stdout, which the dashboard owns.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("msg", "HTTP request", "component", "api",
				"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
				"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/logs", s.handlers.GetLogs)
		r.Delete("/logs", s.handlers.ClearLogs)
		r.Get("/logs/{id}", s.handlers.GetLog)
		r.Get("/stats", s.handlers.GetStats)
		r.Get("/ws", s.handlers.StreamLogs)
	})
}

// Handler returns the router, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured address without serving yet
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.mu.Unlock()
	return nil
}

// Serve serves on the bound listener until Shutdown
func (s *Server) Serve() error {
	s.mu.Lock()
	server, ln := s.httpServer, s.listener
	s.mu.Unlock()

	if server == nil {
		return errors.New("server not listening")
	}
	s.logger.Info("msg", "Demo collector listening", "component", "api", "addr", ln.Addr().String())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.httpServer
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	s.handlers.store.Close()
	return server.Shutdown(ctx)
}

// URL returns the base URL of the bound listener
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return "http://" + s.config.Addr
	}
	return "http://" + s.listener.Addr().String()
}
