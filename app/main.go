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

	"technews/app/api"
	"technews/app/cfg"
	"technews/app/database"
	"technews/app/enrich"
	"technews/app/extractor"
	"technews/app/feed"
	"technews/app/llm"
	"technews/app/pipeline"
	"technews/app/scheduler"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was requested.
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting Tech News Aggregator", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	sources, err := feed.LoadSources(appCfg.FeedsDir)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}
	slog.Info("Feed sources loaded", "dir", appCfg.FeedsDir, "count", len(sources))

	articleRepo := database.NewArticleRepository(db)
	userRepo := database.NewUserRepository(db)
	bookmarkRepo := database.NewBookmarkRepository(db)

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	llmClient := llm.NewClient(appCfg.OllamaURL, appCfg.LLMModel, time.Duration(appCfg.LLMTimeout)*time.Second)
	if !llmClient.Enabled() {
		slog.Warn("Classification service not configured, articles get default sentiment and category")
	}

	ingestion := pipeline.NewPipeline(
		feed.NewSource(httpClient, appCfg.UserAgent),
		extractor.NewExtractor(httpClient, time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.UserAgent),
		enrich.NewEnricher(llmClient),
		articleRepo,
		sources,
		appCfg.ArticleLimit,
		time.Duration(appCfg.PacingDelay)*time.Second,
	)

	passScheduler := scheduler.NewScheduler(ingestion, time.Duration(appCfg.SchedulerInterval)*time.Second)
	passScheduler.Start()
	defer passScheduler.Stop()

	handler := api.NewHandler(articleRepo, userRepo, bookmarkRepo, llmClient)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error, shutting down", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer.
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
