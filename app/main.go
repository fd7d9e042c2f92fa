package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olegbb/presskit/app/api"
	"github.com/olegbb/presskit/app/cfg"
	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
	"github.com/olegbb/presskit/app/site"
	"github.com/olegbb/presskit/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	if appConfig.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Presskit server", "version", appConfig.Version)

	// Database connection
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	// Site metadata
	siteConfig, err := site.Load(appConfig.SiteConfig)
	if err != nil {
		log.Fatal("Failed to load site config:", err)
	}
	slog.Info("Site config loaded", "title", siteConfig.Title, "language", siteConfig.Language)

	// Initial content scan
	library := content.NewLibrary(appConfig.ContentDir)
	if err := library.Run(); err != nil {
		log.Fatal("Failed to scan content directory:", err)
	}
	slog.Info("Content scanned", "dir", appConfig.ContentDir,
		"posts", library.GetPostCount(), "parse_errors", len(library.GetParseErrors()))

	// Repositories
	postRepo := database.NewPostRepository(db)
	lintRepo := database.NewLintRepository(db)

	// Core components
	renderer := content.NewRenderer()
	linter := content.NewLinter()

	// Background scheduler
	slog.Info("Starting background scheduler", "workers", appConfig.WorkerCount,
		"interval_seconds", appConfig.SchedulerInterval)
	scheduler := tasks.NewScheduler(library, renderer, linter, postRepo, lintRepo)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(postRepo, lintRepo, library, renderer, siteConfig, scheduler)
	server := api.NewServer(handler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		slog.Info("Endpoints available",
			"posts", fmt.Sprintf("http://localhost:%s/posts", appConfig.Port),
			"feed", fmt.Sprintf("http://localhost:%s/feed.xml", appConfig.Port),
			"health", fmt.Sprintf("http://localhost:%s/health", appConfig.Port))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Presskit server shutdown complete")
}
