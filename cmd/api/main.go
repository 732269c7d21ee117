// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Folio HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Run database migrations (idempotent).
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Wire content services, the editor, the public site and uploads.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/folio/internal/api"
	"github.com/taibuivan/folio/internal/content"
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
	"github.com/taibuivan/folio/internal/platform/database/migrations"
	"github.com/taibuivan/folio/internal/platform/migration"
	"github.com/taibuivan/folio/internal/platform/policy"
	pgstore "github.com/taibuivan/folio/internal/platform/postgres"
	redisstore "github.com/taibuivan/folio/internal/platform/redis"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/storage"
	"github.com/taibuivan/folio/internal/site"
	"github.com/taibuivan/folio/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Folio] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("content_sanitize", cfg.ContentSanitize),
		slog.Bool("admin_override", cfg.AdminOverride),
		slog.Bool("uploads_enabled", cfg.UploadsEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, migrations.FS, log), "run migrations")

	// ── 4. PostgreSQL and Redis ───────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Settings{
		MaxConns:         cfg.DatabaseMaxConns,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	guard := policy.Default(cfg.AdminOverride)

	var sanitizer *content.Sanitizer
	if cfg.ContentSanitize {
		sanitizer = content.NewSanitizer()
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	siteCache := site.NewRedisCache(rdb)
	activityRepository := activity.NewRepository(pool)
	recorder := site.NewInvalidatingRecorder(activityRepository, siteCache, log)
	retries := cfg.SlugConflictRetries

	bookService := book.NewService(book.NewRepository(pool), guard, recorder, retries, log)
	chapterService := chapter.NewService(chapter.NewRepository(pool), guard, recorder, retries, log)
	pageService := page.NewService(page.NewRepository(pool), guard, recorder, sanitizer, retries, log)
	articleService := article.NewService(article.NewRepository(pool), guard, recorder, sanitizer, retries, log)
	tagService := tag.NewService(tag.NewRepository(pool), log)
	categoryService := category.NewService(category.NewRepository(pool), log)
	authService := auth.NewService(auth.NewUserRepository(pool), tokens, log)
	editorService := editor.NewService(editor.NewRedisStore(rdb, constants.DraftSessionTTL), pageService, articleService, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Books:      book.NewHandler(bookService),
		Chapters:   chapter.NewHandler(chapterService),
		Pages:      page.NewHandler(pageService),
		Articles:   article.NewHandler(articleService),
		Tags:       tag.NewHandler(tagService),
		Categories: category.NewHandler(categoryService),
		Activity:   activity.NewHandler(activityRepository),
		Drafts:     editor.NewHandler(editorService),
		Site:       site.NewHandler(site.NewReader(pool), siteCache, cfg.SiteCacheTTL, log),
	}

	if cfg.UploadsEnabled() {
		objects, err := storage.NewS3(storage.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		must(log, err, "initialize object storage")
		handlers.Uploads = media.NewHandler(media.NewService(objects, log))
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	server := api.NewServer(serverCtx, cfg, log, tokens, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "folio"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
