package main

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/cache"
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/handler"
	"blog-admin/internal/logger"
	"blog-admin/internal/service"
	"blog-admin/internal/session"
	"blog-admin/internal/view"
	"blog-admin/web"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, nil)

	// --- Database Initialization and Migration ---
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	log.Info("Applying database migrations...")
	version, err := data.ApplyMigrations(db)
	if err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.With(map[string]interface{}{"version": version}).Info("Migrations applied successfully.")

	// --- Session Management Setup ---
	sessionManager := session.New(cfg.Session, cfg.Server.TLS.Enabled, db)

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	var authenticator *auth.Authenticator
	if cfg.OIDC.Enabled() {
		authenticator, err = auth.NewAuthenticator(context.Background(), &cfg.OIDC)
		if err != nil {
			log.Fatal(err, "Failed to initialize authenticator")
		}
	}
	enforcer, err := auth.NewEnforcer(auth.NewSQLAdapter(db.DriverName(), cfg.DB.DSN))
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS, sessionManager, cfg.Admin.SiteHeader)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	renderCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer renderCache.Close()
	if n, err := renderCache.Purge(); err != nil {
		log.Error(err, "Failed to purge render cache")
	} else {
		log.With(map[string]interface{}{"removed": n, "ttl": renderCache.TTL().String()}).Info("Render cache ready.")
	}
	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go renderCache.RunPurger(purgeCtx, renderCache.TTL(), log)

	// --- Dependency Injection ---
	blogRepository := data.NewBlogRepository(db)
	commentRepository := data.NewCommentRepository(db)
	categoryRepository := data.NewCategoryRepository(db)

	router := handler.NewRouter(handler.Dependencies{
		View:       viewService,
		Sessions:   sessionManager,
		Enforcer:   enforcer,
		Log:        log,
		PerPage:    cfg.Admin.ListPerPage,
		Users:      service.NewUserService(data.NewUserRepository(db)),
		Blogs:      service.NewBlogService(blogRepository, commentRepository, service.NewBodyRenderer(renderCache, log)),
		Comments:   service.NewCommentService(commentRepository, blogRepository),
		Categories: service.NewCategoryService(categoryRepository),
		Places:     service.NewPlaceService(data.NewPlaceRepository(db)),
		SSO:        authenticator,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
