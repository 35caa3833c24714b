package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/analyzer"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/config"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/db"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/report"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/repository"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/router"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/services"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/storage"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/watcher"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Optional report mirror
	var mirror storage.Storage
	if cfg.MirrorEnabled() {
		mirror, err = storage.NewMinioStorage(ctx, storage.Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKeyID,
			SecretKey: cfg.S3SecretAccessKey,
			Bucket:    cfg.S3BucketName,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize report mirror", "error", err)
		}
		logger.Info("Report mirror enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketName)
	}

	// Model capabilities
	summaryBackend := newBackend(ctx, cfg, cfg.SummaryModel, logger)
	generationBackend := newBackend(ctx, cfg, cfg.GenerationModel, logger)
	gateway := analyzer.NewGateway(summaryBackend, generationBackend, cfg.LLMTemperature, logger)

	// Initialize analysis service
	repo := repository.NewRepository(database)
	reports := report.NewWriter(cfg.ReportDir, report.SystemClock{}, mirror, logger)
	service := services.NewService(repo, gateway, gateway, reports, logger)

	if cfg.WatchDir != "" {
		w := watcher.New(service, logger, cfg.WatchSettle)
		go func() {
			if err := w.Run(ctx, cfg.WatchDir); err != nil {
				logger.Error("Directory watcher stopped", "error", err, "dir", cfg.WatchDir)
			}
		}()
	}

	// Setup HTTP router
	handler := router.NewRouter(service, router.Options{
		MaxFileSize: cfg.MaxFileSize,
		CORSOrigins: cfg.CORSOrigins,
	}, logger)

	// Model calls run inside the request, so the write timeout covers them.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 4*cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "provider", cfg.LLMProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	for _, b := range []analyzer.Backend{summaryBackend, generationBackend} {
		if c, ok := b.(io.Closer); ok {
			c.Close()
		}
	}

	logger.Info("Server exited")
}

func newBackend(ctx context.Context, cfg *config.Config, model string, logger *utils.Logger) analyzer.Backend {
	backend, err := analyzer.NewBackend(ctx, analyzer.BackendConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		Model:     model,
		Timeout:   cfg.LLMTimeout,
		ProjectID: cfg.VertexProject,
		Region:    cfg.VertexRegion,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize model backend", "error", err, "model", model)
	}
	return backend
}
