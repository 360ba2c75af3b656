package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	_ "taskhub/docs" // Swagger docs (generated)
	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/database"
	httpServer "taskhub/internal/http"
	"taskhub/internal/logging"
	"taskhub/internal/metrics"
	"taskhub/internal/task"
	"taskhub/internal/user"
)

// @title           TaskHub API
// @version         1.0
// @description     REST backend for the TaskHub task manager: signup/login and ownership-scoped task CRUD.

// @host      localhost:3001
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Apply schema migrations before opening the pool
	if err := database.RunMigrations(cfg.Database.URL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)

	// Initialize token service (the signing secret was validated at load)
	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	// Initialize services
	authService := auth.NewService(userRepo, jwtService)
	taskService := task.NewService(taskRepo)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	taskHandler := task.NewHandler(taskService)
	authMiddleware := auth.NewMiddleware(jwtService)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, taskHandler, collector, registry, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}
