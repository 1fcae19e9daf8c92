package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"uigen/internal/anonwork"
	"uigen/internal/auth"
	"uigen/internal/capabilities"
	"uigen/internal/config"
	"uigen/internal/handler"
	"uigen/internal/llm/factory"
	"uigen/internal/middleware"
	"uigen/internal/repository/postgres"
	chatService "uigen/internal/service/chat"
	projectService "uigen/internal/service/project"
	reconcileService "uigen/internal/service/reconcile"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Anonymous-work tracking needs Redis; without it the tracker degrades
	// to "no tracked work" and everything else keeps running.
	var anonStorage anonwork.Storage
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		anonStorage = anonwork.NewRedisStorage(redisClient)
		logger.Info("anonymous work tracking enabled")
	} else {
		logger.Warn("REDIS_URL not set; anonymous work tracking disabled")
	}
	tracker := anonwork.NewTracker(anonStorage)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)

	provider, modelConfig, err := factory.SelectProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to setup model provider: %v", err)
	}
	logger.Info("model provider selected",
		"provider", provider.Name(),
		"model", modelConfig.Model,
		"max_steps", modelConfig.MaxSteps,
	)

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	credentials := auth.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)

	projects := projectService.NewService(projectRepo, logger)
	chat := chatService.NewService(provider, *modelConfig, projects, tracker, logger)
	reconcile := reconcileService.NewService(credentials, projects, tracker, logger)

	projectHandler := handler.NewProjectHandler(projects, logger)
	chatHandler := handler.NewChatHandler(chat, logger)
	authHandler := handler.NewAuthHandler(reconcile, logger)
	capabilitiesHandler := handler.NewCapabilitiesHandler(capabilityRegistry, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.Get)

	mux.HandleFunc("POST /api/chat", chatHandler.Complete)

	mux.HandleFunc("POST /api/auth/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)

	mux.HandleFunc("GET /api/models/capabilities", capabilitiesHandler.List)

	// Middleware chain: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID", middleware.AnonSessionHeader},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
