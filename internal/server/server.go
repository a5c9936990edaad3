// Package server implements the chatbot's HTTP surface: a single route
// serving the chat page and handling chat form submissions.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/mrocha/faqbot/internal/config"
	"github.com/mrocha/faqbot/internal/database"
	"github.com/mrocha/faqbot/internal/faq"
	"github.com/mrocha/faqbot/internal/generator"
	"github.com/mrocha/faqbot/internal/logger"
	"github.com/mrocha/faqbot/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server wires the FAQ matcher, generator, session store, and interaction
// log behind the single chat route.
type Server struct {
	cfg         *config.Config
	log         *slog.Logger
	matcher     *faq.Matcher
	gen         generator.Client
	store       database.Store
	sessions    *session.Manager
	transcripts session.Store
	httpServer  *http.Server
}

// New creates the HTTP server with its router and middleware stack.
func New(
	cfg *config.Config,
	log *slog.Logger,
	matcher *faq.Matcher,
	gen generator.Client,
	store database.Store,
	sessions *session.Manager,
	transcripts session.Store,
) *Server {
	s := &Server{
		cfg:         cfg,
		log:         log.With("component", "server"),
		matcher:     matcher,
		gen:         gen,
		store:       store,
		sessions:    sessions,
		transcripts: transcripts,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Router builds the chi router for the chat route. Exposed separately so
// tests can drive the handler through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/", s.handleChat)
	r.Post("/", s.handleChat)

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. Shutdown is graceful with a bounded timeout.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
