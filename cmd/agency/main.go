// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/config"
	"github.com/olegiv/agency-go/internal/handler"
	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/logging"
	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/version"
	"github.com/olegiv/agency-go/web"
)

// Contact form submissions allowed per client IP.
const (
	contactRateLimit = 0.2
	contactBurst     = 3
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "agency - bilingual agency site with admin CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_SESSION_SECRET   Session/CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_DB_DRIVER        sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_DB_DSN           SQLite path or MySQL DSN (default: ./data/agency.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_ENV              development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_LOCALES          Supported locales (default: en,ar)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_REDIS_URL        Redis URL for the content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_SMTP_HOST        Contact mail relay (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCY_ADMIN_EMAIL      Initial administrator e-mail (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("agency %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := i18n.Init(); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	if cfg.DBDriver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.Pool(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	queries := store.New(db)

	if err := store.SeedAdmin(ctx, queries, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if cfg.DemoMode {
		if err := store.SeedDemo(ctx, queries); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.DBDriver, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	contentCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	defer func() {
		if err := contentCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	locales := locale.NewSet(cfg.Locales, cfg.DefaultLocale)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Locales:        locales,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	loginProtection, contactLimiter := newRateLimiters(slog.Default())

	contactMailer := mail.NewSMTPSender(cfg.ContactSMTP())
	testMailer := mail.NewSMTPSender(cfg.TestSMTP())
	if !cfg.ContactSMTP().Configured() {
		slog.Warn("contact mail relay not configured; submissions will fail")
	}

	contentService := service.NewContentService(queries, contentCache)
	loginService := service.NewLoginService(queries, loginProtection)
	contactService := service.NewContactService(contactMailer, cfg.ContactTo)
	mediaService := service.NewMediaService(cfg.UploadsDir)

	apiHandler := api.NewHandler(api.Deps{
		Queries:    queries,
		Sessions:   sessionManager,
		Content:    contentService,
		Login:      loginService,
		Contact:    contactService,
		Media:      mediaService,
		TestMailer: testMailer,
		TestMailTo: cfg.ContactTo,
	})

	a := &app{
		sessions: sessionManager,
		locales:  locales,
		frontend: handler.NewFrontendHandler(handler.FrontendDeps{
			Queries:  queries,
			Content:  contentService,
			Contact:  contactService,
			Renderer: renderer,
			Locales:  locales,
			Logger:   logger,
			SiteURL:  cfg.SiteURL,
			IsDev:    cfg.IsDevelopment(),
		}),
		admin: handler.NewAdminHandler(handler.AdminDeps{
			Queries:  queries,
			Sessions: sessionManager,
			Login:    loginService,
			Content:  contentService,
			API:      apiHandler,
			Media:    mediaService,
			Renderer: renderer,
			Logger:   logger,
		}),
		health: handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir),
		api: apiHandler,
		loginProtection: loginProtection,
		contactLimiter:  contactLimiter,
		security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		csrf:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		static:          staticFS,
		uploadsDir:      cfg.UploadsDir,
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           a.routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newRateLimiters builds the login protection and the contact form limiter
// and logs the limits in effect.
func newRateLimiters(logger *slog.Logger) (*middleware.LoginProtection, *middleware.IPRateLimiter) {
	loginCfg := middleware.DefaultLoginProtectionConfig()
	loginProtection := middleware.NewLoginProtection(loginCfg)
	logger.Info("login protection initialized",
		"ip_rate_limit", loginCfg.IPRateLimit,
		"ip_burst", loginCfg.IPBurst,
		"max_failed_attempts", loginCfg.MaxFailedAttempts,
		"lockout_duration", loginCfg.LockoutDuration,
	)

	contactLimiter := middleware.NewIPRateLimiter(contactRateLimit, contactBurst)
	logger.Info("contact rate limit initialized",
		"ip_rate_limit", contactRateLimit,
		"ip_burst", contactBurst,
	)
	return loginProtection, contactLimiter
}
