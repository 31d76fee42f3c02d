package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"focusos/internal/ai"
	"focusos/internal/config"
	"focusos/internal/extract"
	"focusos/internal/googleauth"
	"focusos/internal/handler"
	"focusos/internal/logger"
	"focusos/internal/repository"
	"focusos/internal/repository/memory"
	"focusos/internal/repository/mongodb"
	"focusos/internal/repository/postgres"
	"focusos/internal/router"
	"focusos/internal/service"
	"focusos/internal/sse"
	"focusos/internal/vault"
	"focusos/internal/workspace"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.NewWithEnv(cfg.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Relational store: PostgreSQL when DATABASE_URL is set, in-memory otherwise
	var repos *repository.Repositories
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		repos = postgres.New(db)
		appLogger.Info("Using PostgreSQL repositories")
	} else {
		repos = memory.New()
		appLogger.Info("Using in-memory repositories")
	}

	// Saved items: MongoDB when MONGO_URI is set, in-memory otherwise
	var savedStore repository.SavedStore
	if cfg.MongoURI != "" {
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer client.Disconnect(context.Background())

		store := mongodb.NewMongoSavedStore(client.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Fatal("Failed to create MongoDB indexes:", err)
		}
		savedStore = store
		appLogger.Info("Using MongoDB saved store")
	} else {
		savedStore = memory.NewInMemorySavedStore()
		appLogger.Info("Using in-memory saved store")
	}

	// Google sessions
	tokenVault, err := vault.New(cfg.TokenEncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token vault:", err)
	}
	provider := googleauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UpstreamTimeout)
	sessionManager := googleauth.NewManager(provider, tokenVault, repos.Users, repos.Accounts, cfg.UpstreamTimeout, appLogger)
	googleClients := workspace.NewClients(sessionManager, appLogger)

	// Initialize AI client
	aiClient, err := ai.NewClient(ctx, cfg.AIProvider, cfg.AIKey, cfg.AIModel, appLogger)
	if err != nil {
		log.Fatal("Failed to initialize AI client:", err)
	}
	gateway := ai.NewGateway(aiClient, cfg.LLMTimeout, appLogger)

	// Initialize services
	authService := service.NewAuthService(repos.Users, sessionManager, appLogger)
	syncService := service.NewSyncService(repos.Emails, repos.Events, repos.Docs, googleClients, cfg.UpstreamTimeout, appLogger)
	agentService := service.NewAgentService(repos.Users, repos.Emails, repos.Events, repos.Tasks, repos.Plans, repos.Triage, gateway, appLogger)
	calendarService := service.NewCalendarService(repos.Events, googleClients, cfg.UpstreamTimeout, appLogger)
	emailService := service.NewEmailService(repos.Users, googleClients, cfg.UpstreamTimeout, appLogger)
	learningService := service.NewLearningService(repos.Materials, repos.Artifacts, extract.New(), gateway, appLogger)
	savedService := service.NewSavedService(savedStore, appLogger)

	// Initialize SSE manager for sync notifications
	sseManager := sse.NewManager(appLogger)

	sessions := handler.NewSessionStore([]byte(cfg.SessionSecret), cfg.IsProduction())

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AppBaseURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("25M"))

	router.SetupRoutes(e, sessions, router.Handlers{
		Auth:     handler.NewAuthHandler(sessionManager, authService, sessions, cfg.AppBaseURL, appLogger),
		Sync:     handler.NewSyncHandler(syncService, sseManager, appLogger),
		Agent:    handler.NewAgentHandler(agentService, appLogger),
		Calendar: handler.NewCalendarHandler(calendarService, appLogger),
		Email:    handler.NewEmailHandler(emailService, appLogger),
		Learning: handler.NewLearningHandler(learningService, appLogger),
		Saved:    handler.NewSavedHandler(savedService, appLogger),
	})

	// Background sync for users with an open event stream
	if cfg.SyncInterval > 0 {
		syncJob := sse.NewSyncJob(syncService, repos.Users, sessionManager, sseManager, cfg.SyncInterval, appLogger)
		go syncJob.Start()
		defer syncJob.Stop()
	}

	// Start server
	go func() {
		appLogger.Infof("Starting server on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorf("Failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	// Closing the manager ends open event streams so Shutdown is not held up by them
	sseManager.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Graceful shutdown failed: %v", err)
	}
}
