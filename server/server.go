package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/server/endpoint"
	"github.com/kbukum/asrgateway/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server is an HTTP server backed by Gin. Extra http.Handler mounts share the
// same port through a root ServeMux, and the net/http middleware stack wraps
// both.
type Server struct {
	engine      *gin.Engine
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	config      Config
	log         *logger.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a new Server. No middleware is applied yet; call
// ApplyMiddleware or Use before Start.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	return &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler at the given pattern on the root ServeMux.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// Use appends middleware to the stack. The first middleware added is the
// outermost.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mws...)
}

// Handler returns the full handler: middleware stack around the mux, wrapped
// for HTTP/2 cleartext.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          time.Duration(s.config.IdleTimeout) * time.Second,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// ApplyMiddleware installs the standard stack: recovery, request id, CORS,
// body-size limit and request logging.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
	)
	if s.config.MaxBodySize != "" {
		s.Use(middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	s.Use(middleware.RequestLogger(s.log))
}

// RegisterDefaultEndpoints registers /health, /alive, /ready, /info, /version
// and /metrics. A nil gatherer serves the default Prometheus registry.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker, gatherer prometheus.Gatherer) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
	s.engine.GET("/version", endpoint.Version())
	s.engine.GET("/metrics", endpoint.Metrics(gatherer))
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer != nil {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.log.Info("Starting HTTP server", logger.Fields("addr", addr))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", addr, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.config.IdleTimeout) * time.Second,
	}
	s.httpServer = srv
	s.listener = listener

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Running reports whether the server is serving.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpServer != nil
}
