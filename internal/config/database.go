package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMissingDSN is returned when no connection string is configured
var ErrMissingDSN = errors.New("DATABASE_DSN is required")

// Opener opens a new database handle
type Opener func(ctx context.Context) (*gorm.DB, error)

// Gateway lazily opens one database handle and shares it with every caller.
// Concurrent first callers wait on the same open attempt.
type Gateway struct {
	open Opener

	once sync.Once
	db   *gorm.DB
	err  error
}

// NewGateway creates a gateway for the configured MySQL database
func NewGateway(cfg *Config) *Gateway {
	return NewGatewayWithOpener(mysqlOpener(cfg))
}

// NewGatewayWithOpener creates a gateway around a custom opener
func NewGatewayWithOpener(open Opener) *Gateway {
	return &Gateway{open: open}
}

// Connect returns the shared handle, opening it on first use.
// An open failure is sticky: later calls return the same error.
func (g *Gateway) Connect(ctx context.Context) (*gorm.DB, error) {
	g.once.Do(func() {
		g.db, g.err = g.open(ctx)
	})
	return g.db, g.err
}

// Close closes the database connection
func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}

	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func (g *Gateway) HealthCheck(ctx context.Context) error {
	if g.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func mysqlOpener(cfg *Config) Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		if cfg.Database.DSN == "" {
			return nil, ErrMissingDSN
		}

		// Configure GORM logger based on mode
		var gormLogger logger.Interface
		if cfg.IsDev() {
			gormLogger = logger.Default.LogMode(logger.Info)
		} else {
			gormLogger = logger.Default.LogMode(logger.Error)
		}

		db, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{
			Logger:                 gormLogger,
			SkipDefaultTransaction: true,
			TranslateError:         true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		// Connection pool settings
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		log.Println("✅ Database connected successfully")
		return db, nil
	}
}
