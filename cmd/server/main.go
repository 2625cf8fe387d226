package main

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"tankmate/internal/auth"
	"tankmate/internal/capabilities"
	"tankmate/internal/config"
	"tankmate/internal/handler"
	"tankmate/internal/handler/sse"
	"tankmate/internal/middleware"
	"tankmate/internal/service/chat"
	"tankmate/internal/service/inventory"
	"tankmate/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Create JWT verifier when a JWKS endpoint is configured; with none,
	// requests run unauthenticated (local dev)
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		jwtVerifier = verifier
	} else {
		logger.Warn("JWKS_URL not set, bearer auth disabled")
	}

	// Setup completion providers
	providerRegistry, err := llm.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup completion providers: %v", err)
	}

	// Initialize capability registry
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized")

	// In-memory collaborators
	inventoryStore := inventory.NewStore(logger)
	sessionManager := chat.NewManager()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(sessionManager, providerRegistry, inventoryStore, cfg, logger)
	streamHandler := handler.NewStreamHandler(sessionManager, sse.DefaultConfig(), logger)
	aquariumHandler := handler.NewAquariumHandler(inventoryStore, logger)
	modelsHandler := handler.NewModelsHandler(cfg, logger, capabilityRegistry)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/messages", sessionHandler.SubmitMessage)
	mux.HandleFunc("POST /api/sessions/{id}/suggestions/confirm", sessionHandler.ConfirmSuggestion)
	mux.HandleFunc("POST /api/sessions/{id}/reveal/complete", sessionHandler.CompleteReveal)
	mux.HandleFunc("POST /api/sessions/{id}/clear", sessionHandler.ClearSession)
	mux.HandleFunc("PUT /api/sessions/{id}/aquarium", sessionHandler.SetAquarium)

	// SSE event stream
	mux.HandleFunc("GET /api/sessions/{id}/events", streamHandler.StreamEvents)

	// Aquarium inventory routes (volatile, in-memory)
	mux.HandleFunc("GET /api/aquariums", aquariumHandler.ListAquariums)
	mux.HandleFunc("POST /api/aquariums", aquariumHandler.CreateAquarium)
	mux.HandleFunc("GET /api/aquariums/{id}", aquariumHandler.GetAquarium)
	mux.HandleFunc("DELETE /api/aquariums/{id}", aquariumHandler.DeleteAquarium)
	mux.HandleFunc("POST /api/aquariums/{id}/items", aquariumHandler.AddItem)

	// Model capabilities routes
	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)

	// Build middleware chain
	var rootHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	rootHandler = middleware.AuthMiddleware(jwtVerifier)(rootHandler)
	rootHandler = middleware.Recovery(logger)(rootHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	rootHandler = corsHandler.Handler(rootHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
