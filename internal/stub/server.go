package stub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/passwd"
)

const shutdownTimeout = 10 * time.Second

// Server is the reference server.
type Server struct {
	cfg    config.StubConfig
	store  *Store
	tokens *TokenService
	logger *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStore replaces the seeded store.
func WithStore(st *Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// New creates a Server whose store holds the configured user and two
// target-system configs.
func New(cfg config.StubConfig, opts ...Option) (*Server, error) {
	tokens, err := NewTokenService(cfg.JWTSecret, cfg.TokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store, err = seededStore(cfg)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func seededStore(cfg config.StubConfig) (*Store, error) {
	hash, err := passwd.Hash(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to seed user %q: %w", cfg.Username, err)
	}

	st := NewStore()
	st.AddUser(User{
		Username:     cfg.Username,
		PasswordHash: hash,
		Role:         cfg.Role,
		FullName:     "Administrator",
	})

	now := st.now().UTC()
	st.AddConfig(TargetSystemConfig{
		ID:          "local-api",
		Name:        "Local API",
		APIURL:      "http://localhost:8080/api",
		UIURL:       "http://localhost:3000",
		Description: "Target system running on the developer machine",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	st.AddConfig(TargetSystemConfig{
		ID:          "staging-api",
		Name:        "Staging API",
		APIURL:      "http://staging.internal:8080/api",
		Description: "Shared staging deployment",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return st, nil
}

// Store returns the server's store.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(traceMiddleware(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)

		r.Get("/test-suites", s.listSuites)
		r.Post("/test-suites", s.createSuite)
		r.Get("/test-suites/{id}", s.getSuite)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(s.tokens))
			r.Get("/target-system-configs", s.listConfigs)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// ListenAndServe serves on the configured address until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stub server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down stub server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stub server shutdown failed: %w", err)
	}
	<-errCh

	s.logger.Info("stub server stopped")
	return nil
}
