package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	LoginPath string
	Database  DatabaseConfig
	Session   SessionConfig
	Cookie    CookieConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Seed      SeedConfig
	Cron      CronConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string
}

// SessionConfig holds session token configuration
type SessionConfig struct {
	Secret string
	MaxAge time.Duration
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
	Domain   string
}

// StorageConfig selects and configures the asset store
type StorageConfig struct {
	Driver   string // "local" or "oss"
	Dir      string
	BaseURL  string
	MaxWidth int
	OSS      OSSConfig
}

// OSSConfig holds Aliyun OSS credentials
type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string
	Prefix        string
}

// RedisConfig holds response cache configuration. Empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SeedConfig holds the bootstrap admin credentials
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminName     string
}

// CronConfig holds scheduler specs
type CronConfig struct {
	DigestSpec string
	PingSpec   string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	cfg := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		LoginPath: getEnv("LOGIN_PATH", "/auth/login"),
		Database:  DatabaseConfig{DSN: strings.TrimSpace(os.Getenv("DATABASE_DSN"))},
		Session:   loadSessionConfig(),
		Cookie:    loadCookieConfig(appMode),
		Storage:   loadStorageConfig(),
		Redis:     loadRedisConfig(),
		Seed: SeedConfig{
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			AdminName:     getEnv("ADMIN_NAME", "Administrator Desa"),
		},
		Cron: CronConfig{
			DigestSpec: getEnv("CRON_DIGEST_SPEC", "30 7 * * *"),
			PingSpec:   getEnv("CRON_PING_SPEC", "@every 5m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return cfg, nil
}

// Validate checks the keys the process cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.Session.Secret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	if c.Storage.Driver != "local" && c.Storage.Driver != "oss" {
		return fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be 'local' or 'oss')", c.Storage.Driver)
	}
	return nil
}

func loadSessionConfig() SessionConfig {
	hours, _ := strconv.Atoi(getEnv("SESSION_MAX_AGE_HOURS", "720"))
	if hours <= 0 {
		hours = 720
	}
	return SessionConfig{
		Secret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		MaxAge: time.Duration(hours) * time.Hour,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", ""))
	if err != nil {
		secure = mode == "prod"
	}

	return CookieConfig{
		Name:     getEnv("COOKIE_NAME", "session_token"),
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadStorageConfig() StorageConfig {
	maxWidth, _ := strconv.Atoi(getEnv("UPLOAD_MAX_WIDTH", "1920"))

	return StorageConfig{
		Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		Dir:      getEnv("UPLOAD_DIR", "public/uploads"),
		BaseURL:  getEnv("UPLOAD_BASE_URL", "/uploads"),
		MaxWidth: maxWidth,
		OSS: OSSConfig{
			Endpoint:      os.Getenv("ALI_OSS_ENDPOINT"),
			AccessKey:     os.Getenv("ALI_OSS_ACCESS_KEY"),
			SecretKey:     os.Getenv("ALI_OSS_SECRET_KEY"),
			SecurityToken: os.Getenv("ALI_OSS_SECURITY_TOKEN"),
			Bucket:        os.Getenv("ALI_OSS_BUCKET"),
			PublicBase:    os.Getenv("ALI_OSS_PUBLIC_BASE"),
			Prefix:        getEnv("ALI_OSS_PREFIX", "desa"),
		},
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "60"))

	return RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttl) * time.Second,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
