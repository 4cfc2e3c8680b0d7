// Package main initializes and starts the notehub API server,
// setting up configuration, logging, database and session-store
// connections, repositories, services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"notehub/internal/config"
	"notehub/internal/db"
	"notehub/internal/logger"
	"notehub/internal/ratelimit"
	"notehub/internal/repository"
	"notehub/internal/server/handler/http"
	"notehub/internal/service"
	"notehub/internal/session"
	"notehub/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Clear dangling folder and tag references left by interrupted
	// cascade deletes.
	db.StartReferenceSweeper(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize the Redis-backed refresh-session store.
	sessions, err := session.NewRedisStore(options.RedisURL)
	if err != nil {
		zapLogger.Fatal("cannot init session store", zap.Error(err))
	}
	defer func() { _ = sessions.Close() }()

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	folderRepo := repository.NewPostgresFolderRepository(postgresDB)
	tagRepo := repository.NewPostgresTagRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)

	// Initialize business-logic services.
	issuer := token.NewIssuer(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuthService(userRepo, sessions, issuer, options.RefreshTTL)
	noteService := service.NewNoteService(noteRepo, folderRepo, tagRepo)
	folderService := service.NewFolderService(folderRepo, noteRepo, zapLogger)
	tagService := service.NewTagService(tagRepo, noteRepo, zapLogger)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{Auth: authService, Log: zapLogger}
	notesHandler := &http.NotesHandler{Notes: noteService, Log: zapLogger}
	foldersHandler := &http.FoldersHandler{Folders: folderService, Log: zapLogger}
	tagsHandler := &http.TagsHandler{Tags: tagService, Log: zapLogger}

	// Per-client rate limiter for the credential endpoints.
	limiter := ratelimit.New(options.AuthRPS, options.AuthBurst)
	limiter.StartCleanupWorker(context.Background(), 10*time.Minute, 10000)

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		notesHandler,
		foldersHandler,
		tagsHandler,
		issuer,
		limiter,
		postgresDB,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
