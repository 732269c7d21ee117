// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - The JSON API lives under /api and the rendered public site at the root.
  - It acts as the central composition root for the HTTP transport (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/folio/internal/core/activity"
	"github.com/taibuivan/folio/internal/core/article"
	"github.com/taibuivan/folio/internal/core/book"
	"github.com/taibuivan/folio/internal/core/category"
	"github.com/taibuivan/folio/internal/core/chapter"
	"github.com/taibuivan/folio/internal/core/page"
	"github.com/taibuivan/folio/internal/core/tag"
	"github.com/taibuivan/folio/internal/editor"
	"github.com/taibuivan/folio/internal/media"
	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/middleware"
	"github.com/taibuivan/folio/internal/site"
	"github.com/taibuivan/folio/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when Postgres and Redis respond.
	Readiness http.HandlerFunc

	Auth       *auth.Handler
	Books      *book.Handler
	Chapters   *chapter.Handler
	Pages      *page.Handler
	Articles   *article.Handler
	Tags       *tag.Handler
	Categories *category.Handler
	Activity   *activity.Handler
	Drafts     *editor.Handler

	// Uploads is nil when no bucket is configured; /api/uploads is then absent.
	Uploads *media.Handler

	// Site renders the public pages.
	Site *site.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		h.Auth.Mount(api)

		api.Mount("/books", h.Books.Routes())
		api.Mount("/chapters", h.Chapters.Routes())
		api.Mount("/pages", h.Pages.Routes())
		api.Mount("/articles", h.Articles.Routes())
		api.Route("/tags", h.Tags.RegisterRoutes)
		api.Route("/categories", h.Categories.RegisterRoutes)
		api.Mount("/activity", h.Activity.Routes())
		api.Mount("/drafts", h.Drafts.Routes())

		if h.Uploads != nil {
			api.Mount("/uploads", h.Uploads.Routes())
		}
	})

	// # Public Site
	h.Site.RegisterRoutes(r)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the composed router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
