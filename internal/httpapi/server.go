package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/patrickmn/go-cache"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/logging"
	"superforge/internal/services"
)

// Store is the subset of the content store the API reads.
type Store interface {
	Book(ctx context.Context, book int) (*content.Book, error)
	ChapterCount(ctx context.Context, book int) (int, error)
	Descriptor(ctx context.Context, book int) (*content.Descriptor, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	cfg    *config.Config
	store  Store
	logger *slog.Logger
	cache  *cache.Cache
	router chi.Router

	listener net.Listener
	server   *http.Server
}

// New constructs the server and mounts its routes. store may be nil, in
// which case book titles and stored descriptors are not consulted.
func New(cfg *config.Config, store Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("http api requires config")
	}
	ttl := cfg.CacheTTL()
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "httpapi"),
		cache:  cache.New(ttl, 2*ttl),
		router: chi.NewRouter(),
	}
	s.routes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if limit := s.cfg.Server.RateLimitPerMinute; limit > 0 {
		s.router.Use(httprate.LimitByIP(limit, time.Minute))
	}
	s.router.Use(authMiddleware(s.cfg.Server.Token))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/partition/chapters/{chapter}", s.handleLocate)
		r.Get("/sections", s.handleSections)
		r.Get("/sections/{section}", s.handleSection)
		r.Get("/books", s.handleBooks)
		r.Get("/books/{book}/manifest", s.handleManifest)
		r.Get("/books/{book}/descriptor", s.handleDescriptor)
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured bind address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

// InvalidateDescriptor drops a cached descriptor, e.g. after a rebuild.
func (s *Server) InvalidateDescriptor(book int) {
	s.cache.Delete(descriptorKey(book))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx := services.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.WithContext(ctx, s.logger).Debug("request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Int("bytes", ww.BytesWritten()),
			logging.Duration("duration", time.Since(started)),
		)
	})
}

// authMiddleware validates bearer tokens. An empty token disables the check.
func authMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
