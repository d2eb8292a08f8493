// Package main initializes and starts the noteshare HTTP server,
// wiring configuration, logging, the in-memory stores, services,
// handlers, and routing.
package main

import (
	"cmp"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/avoronin/noteshare/internal/config"
	"github.com/avoronin/noteshare/internal/logger"
	"github.com/avoronin/noteshare/internal/render"
	"github.com/avoronin/noteshare/internal/repository"
	"github.com/avoronin/noteshare/internal/server/handler/http"
	"github.com/avoronin/noteshare/internal/service"
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
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Without a configured secret, mint an ephemeral one. Tokens then
	// survive exactly as long as the in-memory stores do.
	secret := options.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			zapLogger.Fatal("failed to generate token secret", zap.Error(err))
		}
		secret = hex.EncodeToString(buf)
		zapLogger.Warn("no JWT secret configured, using an ephemeral one")
	}

	ttl, err := time.ParseDuration(options.TokenTTL)
	if err != nil {
		zapLogger.Fatal("invalid token TTL", zap.Error(err))
	}

	// Initialize the in-memory stores. All state is process-local and
	// lost on restart.
	identityStore := repository.NewIdentityStore()
	noteStore := repository.NewNoteStore()

	// Initialize business-logic services.
	authService := service.NewAuthService(identityStore, []byte(secret), ttl)
	noteService := service.NewNoteService(noteStore, authService)

	// Markdown renderer for the public read endpoint.
	renderer, err := render.New()
	if err != nil {
		zapLogger.Fatal("failed to init renderer", zap.Error(err))
	}

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	notesHandler := &http.NotesHandler{NoteService: noteService}
	publicHandler := &http.PublicHandler{NoteService: noteService, Renderer: renderer}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, notesHandler, publicHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
