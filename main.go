package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/opsdesk-io/opsdesk-engine/pkg/auth"
	"github.com/opsdesk-io/opsdesk-engine/pkg/config"
	"github.com/opsdesk-io/opsdesk-engine/pkg/database"
	"github.com/opsdesk-io/opsdesk-engine/pkg/handlers"
	"github.com/opsdesk-io/opsdesk-engine/pkg/logging"
	"github.com/opsdesk-io/opsdesk-engine/pkg/middleware"
	"github.com/opsdesk-io/opsdesk-engine/pkg/repositories"
	"github.com/opsdesk-io/opsdesk-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("redis_host", cfg.Redis.Host))

	ctx := context.Background()

	// Database
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run through database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection",
			zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations",
			zap.String("error", logging.SanitizeError(err)))
	}
	_ = sqlDB.Close()

	// Redis (optional master-code cache)
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis",
			zap.String("error", logging.SanitizeError(err)))
	}
	if redisClient == nil {
		logger.Info("Redis not configured, master-code cache disabled")
	} else {
		defer func() { _ = redisClient.Close() }()
	}

	// Authentication
	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger.Named("auth"))
	authMiddleware := auth.NewMiddleware(authService, logger.Named("auth-middleware"))

	// Repositories
	recordRepo := repositories.NewRecordRepository(db)
	changeLogRepo := repositories.NewChangeLogRepository(db)
	masterCodeRepo := repositories.NewMasterCodeRepository(db)

	// Services
	changeLogService := services.NewChangeLogService(changeLogRepo, logger)
	recordService := services.NewRecordService(recordRepo, changeLogService, logger)
	masterCodeService := services.NewMasterCodeService(masterCodeRepo, redisClient,
		time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger.Named("health")).RegisterRoutes(mux)
	handlers.NewRecordHandler(recordService, logger.Named("records")).RegisterRoutes(mux, authMiddleware)
	handlers.NewChangeLogHandler(changeLogService, logger.Named("changelog")).RegisterRoutes(mux, authMiddleware)
	handlers.NewMasterCodeHandler(masterCodeService, logger.Named("master-codes")).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger.Named("http"))(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting opsdesk-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// buildLogger selects the zap preset by environment.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
