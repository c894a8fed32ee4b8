package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"desaku-api/internal/adapters/cache"
	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/adapters/http/routes"
	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/adapters/storage"
	"desaku-api/internal/config"
	"desaku-api/internal/core/services"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	_ "desaku-api/docs" // Swagger docs
)

// @title Desaku API
// @version 1.0
// @description Village government website backend: public content, letter applications and admin management.

// @BasePath /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_token

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// bodyLimit leaves room for multipart overhead around a 5 MiB upload
const bodyLimit = 6 << 20

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desaku",
		Short: "Village government website API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update database tables",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), func(db *gorm.DB, cfg *config.Config) error {
					return migrate(db)
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Migrate, then insert the default admin and letter catalog",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), func(db *gorm.DB, cfg *config.Config) error {
					if err := migrate(db); err != nil {
						return err
					}
					return config.NewSeeder(db, cfg.Seed).Run(cmd.Context())
				})
			},
		},
	)

	return cmd
}

func withDatabase(ctx context.Context, fn func(db *gorm.DB, cfg *config.Config) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	gateway := config.NewGateway(cfg)
	defer gateway.Close()

	db, err := gateway.Connect(ctx)
	if err != nil {
		return err
	}
	return fn(db, cfg)
}

func migrate(db *gorm.DB) error {
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("✅ Database migration completed")
	return nil
}

func serve() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	gateway := config.NewGateway(cfg)
	db, err := gateway.Connect(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer gateway.Close()

	if err := migrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}

	if err := config.NewSeeder(db, cfg.Seed).Run(ctx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}

	responseCache, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("❌ Failed to connect to redis: %v", err)
	}
	defer responseCache.Close()

	// Pending-application digest and database ping
	cronService := services.NewCronService(repositories.NewApplicationRepository(db), gateway, cfg.Cron)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Desaku API v1.0",
		BodyLimit:    bodyLimit,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	routes.Setup(app, routes.Deps{
		Config:  cfg,
		DB:      db,
		Pinger:  gateway,
		Store:   store,
		Cache:   responseCache,
		Metrics: middleware.NewMetrics(),
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
		return err
	}
	return nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
