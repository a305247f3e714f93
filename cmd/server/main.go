package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"loandesk/internal/config"
	"loandesk/internal/handler"
	"loandesk/internal/middleware"
	"loandesk/internal/repository/postgres"
	"loandesk/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	// Logs go to stdout; when LOG_DIR is set they are also written to a
	// rotated file under that directory.
	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 5)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	appRepo := postgres.NewApplicationRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	consolidationService := service.NewConsolidationService(appRepo, folderRepo, fileRepo, txManager, logger)
	uploadResolver := service.NewUploadResolver(folderRepo, consolidationService, logger)
	sweepService := service.NewSweepService(folderRepo, consolidationService, logger)

	// Handlers
	appHandler := handler.NewApplicationHandler(appRepo, logger)
	folderHandler := handler.NewFolderHandler(folderRepo, consolidationService, logger)
	fileHandler := handler.NewFileHandler(fileRepo, uploadResolver, logger)
	adminHandler := handler.NewAdminHandler(sweepService, logger)

	logger.Info("services initialized")

	// Router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", appHandler.HealthCheck)

	// Application routes
	mux.HandleFunc("POST /api/applications", appHandler.CreateApplication)
	mux.HandleFunc("GET /api/applications", appHandler.ListApplications)
	mux.HandleFunc("GET /api/applications/{id}", appHandler.GetApplication)

	// Folder routes
	mux.HandleFunc("GET /api/applications/{id}/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/applications/{id}/folders/resolve-parent", folderHandler.ResolveParentFolder)

	// File routes
	mux.HandleFunc("POST /api/applications/{id}/files", fileHandler.RegisterFile)
	mux.HandleFunc("GET /api/applications/{id}/files", fileHandler.ListFiles)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}/status", fileHandler.UpdateFileStatus)

	// Maintenance routes
	mux.HandleFunc("POST /admin/integrity/sweep", adminHandler.RunSweep)

	// Middleware chain, applied in reverse order
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
