package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bidsmith/tender-analyzer-api/internal/analyzer"
	"github.com/bidsmith/tender-analyzer-api/internal/config"
	"github.com/bidsmith/tender-analyzer-api/internal/db"
	"github.com/bidsmith/tender-analyzer-api/internal/handlers"
	"github.com/bidsmith/tender-analyzer-api/internal/kb"
	"github.com/bidsmith/tender-analyzer-api/internal/repository"
	"github.com/bidsmith/tender-analyzer-api/internal/router"
	"github.com/bidsmith/tender-analyzer-api/internal/services"
	"github.com/bidsmith/tender-analyzer-api/internal/storage"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DBFile)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DBFile); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize object store
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// Load knowledge base
	knowledgeBase, err := kb.Load(cfg.KBPath)
	if err != nil {
		logger.Fatal("Failed to load knowledge base", "error", err)
	}
	logger.Info("Knowledge base loaded", "entries", knowledgeBase.Len())

	// AI gateway
	gateway := analyzer.NewGateway(cfg.AIGatewayURL, cfg.AIAPIKey, cfg.AIModel, logger.Named("gateway"))

	// Repositories and services
	docRepo := repository.NewDocumentRepository(database)
	analysisRepo := repository.NewAnalysisRepository(database)

	docService := services.NewDocumentService(docRepo, analysisRepo, store, gateway, knowledgeBase, logger.Named("documents"))
	analysisService := services.NewAnalysisService(analysisRepo, logger.Named("analyses"))
	shredder := services.NewShredder(docRepo, analysisRepo, store, logger.Named("shredder"))

	// Handlers and router
	docHandler := handlers.NewDocumentHandler(docService, shredder, cfg.MaxFileSize, logger)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, logger)
	handler := router.New(docHandler, analysisHandler, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
