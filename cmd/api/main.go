package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/contactdesk/contactdesk/docs" // Swagger docs (generated)
	"github.com/contactdesk/contactdesk/internal/auth"
	"github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/contact"
	"github.com/contactdesk/contactdesk/internal/database"
	"github.com/contactdesk/contactdesk/internal/email"
	httpServer "github.com/contactdesk/contactdesk/internal/http"
	"github.com/contactdesk/contactdesk/internal/logging"
	"github.com/contactdesk/contactdesk/internal/user"
)

// @title           ContactDesk API
// @version         1.0
// @description     Contact management API with session authentication and password reset.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration; fails fast when SECRET_KEY is missing or malformed
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

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	contactRepo := contact.NewRepository(db)
	sessionStore := auth.NewRedisSessionStore(redisClient)

	// Initialize token services
	pasetoService, err := auth.NewPasetoService(cfg.Auth.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session token service: %w", err)
	}

	resetTokens, err := auth.NewResetTokenService(cfg.Auth.SecretKey, cfg.Auth.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize reset token service: %w", err)
	}

	// Initialize email service
	emailService := email.NewService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.AppURL,
	)

	// Initialize auth service
	authService := auth.NewService(
		userRepo,
		sessionStore,
		pasetoService,
		resetTokens,
		emailService,
		logger,
		cfg.Auth.SessionDuration,
	)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(
		authService,
		logger,
		!cfg.Server.IsDevelopment(), // isProduction
		cfg.Auth.SessionDuration,
	)
	authMiddleware := auth.NewMiddleware(pasetoService, sessionStore)
	contactHandler := contact.NewHandler(contactRepo, logger)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, contactHandler, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
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

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// Create Bun DB wrapper
	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
