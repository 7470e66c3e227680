package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"starwars-gateway/internal/auth"
	"starwars-gateway/internal/catalog"
	"starwars-gateway/internal/config"
	"starwars-gateway/internal/models"
)

// FilmCatalog is the read model served under /v1
type FilmCatalog interface {
	ListFilms(ctx context.Context, query catalog.ListQuery) (*catalog.FilmPage, error)
	GetFilm(ctx context.Context, filmID string) (models.Document, error)
	GetFilmCharacters(ctx context.Context, filmID string) (*catalog.FilmCharacters, error)
}

// Authenticator logs users in and verifies their bearer tokens
type Authenticator interface {
	Login(username, password string) (*auth.LoginResult, error)
	Verify(token string) (string, error)
}

// Server represents the gateway HTTP server
type Server struct {
	cfg     *config.ServerConfig
	catalog FilmCatalog
	auth    Authenticator
	logger  *zap.Logger
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new gateway HTTP server
func NewServer(cfg *config.ServerConfig, filmCatalog FilmCatalog, authenticator Authenticator, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		catalog: filmCatalog,
		auth:    authenticator,
		logger:  logger,
	}
	s.handler = s.createHandler()
	s.server = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured port and serves until Stop is called
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener. It returns nil after a graceful Stop.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("Starting gateway HTTP server", zap.String("address", listener.Addr().String()))
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping gateway HTTP server")
	return s.server.Shutdown(ctx)
}

// createHandler builds the router and wraps it in the global middleware chain
func (s *Server) createHandler() http.Handler {
	router := s.createRouter()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-User-Authorization",
			"X-Authorization",
			"X-Forwarded-Authorization",
			requestIDHeader,
		},
		ExposedHeaders:     []string{requestIDHeader},
		MaxAge:             3600,
		OptionsPassthrough: true,
	})

	// outermost first
	var handler http.Handler = router
	handler = preflightMiddleware(handler)
	handler = corsHandler(handler)
	handler = anyOriginMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	handler = s.accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	router.Use(routeLabelMiddleware)

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Login, throttled per client IP
	router.Handle("/auth/login", s.loginRateLimit(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	// Catalog endpoints
	router.Handle("/v1/films", s.requireAuth(s.handleListFilms)).Methods(http.MethodGet)
	router.Handle("/v1/films/{id}", s.requireAuth(s.handleGetFilm)).Methods(http.MethodGet)
	router.Handle("/v1/films/{id}/characters", s.requireAuth(s.handleGetFilmCharacters)).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func (s *Server) loginRateLimit(next http.Handler) http.Handler {
	if s.cfg.LoginRateLimit <= 0 {
		return next
	}
	return httprate.Limit(
		s.cfg.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Info("Login rate limit exceeded", zap.String("remote_addr", r.RemoteAddr))
			s.writeErrorResponse(w, CodeRateLimited, http.StatusTooManyRequests)
		}),
	)(next)
}
