package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret      = "dev-secret-change-me"
	defaultMaxUploadBytes = 5 << 20
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Image storage
	StorageBackend string
	MediaDir       string
	S3BucketName   string
	AWSRegion      string
	S3PresignTTL   time.Duration
	MaxUploadBytes int64

	CORSAllowedOrigins []string

	RateLimitCreatePerHour int
	RateLimitModifyPerHour int

	LogMode string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env != Production {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded, using process environment")
		}
	}

	cfg := &Config{}
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadCommon(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything from plain environment variables
func loadCIConfig(cfg *Config) {
	cfg.DBPassword = getEnv("DB_PASSWORD", "")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
}

// loadDevConfig prefers environment variables and falls back to Docker secrets, then defaults
func loadDevConfig(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(os.Getenv("DB_PASSWORD"), readSecret("db_password"), "postgres")
	cfg.JWTSecret = firstNonEmpty(os.Getenv("JWT_SECRET"), readSecret("jwt_secret"), defaultJWTSecret)
	cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), readSecret("redis_password"))
	cfg.DBDriver = getEnv("DB_DRIVER", "sqlite")
}

// loadProdConfig reads sensitive values from Docker secrets first
func loadProdConfig(cfg *Config) {
	cfg.DBPassword = firstNonEmpty(readSecret("db_password"), os.Getenv("DB_PASSWORD"))
	cfg.JWTSecret = firstNonEmpty(readSecret("jwt_secret"), os.Getenv("JWT_SECRET"))
	cfg.RedisPassword = firstNonEmpty(readSecret("redis_password"), os.Getenv("REDIS_PASSWORD"))
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
}

func loadCommon(cfg *Config) error {
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = firstNonEmpty(os.Getenv("DB_USER"), readSecret("db_user"), "postgres")
	cfg.DBName = getEnv("DB_NAME", "cookbook")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "cookbook.db")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")

	cfg.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", "local"))
	cfg.MediaDir = getEnv("MEDIA_DIR", "media")
	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	cfg.LogMode = getEnv("LOG_MODE", "dev")

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return err
	}
	if cfg.RateLimitCreatePerHour, err = getEnvInt("RATE_LIMIT_CREATE_PER_HOUR", 20); err != nil {
		return err
	}
	if cfg.RateLimitModifyPerHour, err = getEnvInt("RATE_LIMIT_MODIFY_PER_HOUR", 30); err != nil {
		return err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	ttl := getEnv("S3_PRESIGN_TTL", "15m")
	if cfg.S3PresignTTL, err = time.ParseDuration(ttl); err != nil {
		return ValidationError{Field: "S3_PRESIGN_TTL", Message: fmt.Sprintf("invalid duration %q", ttl)}
	}

	return nil
}

// DSN returns the gorm DSN for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid integer %q", raw)}
	}
	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
