package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/repository/postgres"
	"folio/internal/service"
	serviceauth "folio/internal/service/auth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting server", "environment", cfg.Environment, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	authorizer := serviceauth.NewProjectAuthorizer(projectRepo, logger)
	documentService := service.NewDocumentService(docRepo, revisionRepo, projectRepo, txManager, authorizer, logger)
	projectService := service.NewProjectService(projectRepo, authorizer, logger)

	documentHandler := handler.NewDocumentHandler(documentService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)

	verifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		return fmt.Errorf("init token verifier: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", documentHandler.HealthCheck)

	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("GET /api/projects/{slug}", projectHandler.Get)

	mux.HandleFunc("GET /api/projects/{slug}/tree", documentHandler.GetTree)
	mux.HandleFunc("GET /api/projects/{slug}/activity", documentHandler.GetActivity)
	mux.HandleFunc("GET /api/projects/{slug}/documents/{path...}", documentHandler.GetDocument)
	mux.HandleFunc("PUT /api/projects/{slug}/documents/{path...}", documentHandler.PutDocument)
	mux.HandleFunc("DELETE /api/projects/{slug}/documents/{path...}", documentHandler.DeleteDocument)
	mux.HandleFunc("GET /api/projects/{slug}/history/{path...}", documentHandler.GetHistory)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var root http.Handler = mux
	root = middleware.Auth(verifier, userRepo, logger)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
