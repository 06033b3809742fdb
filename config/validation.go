package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines which settings must be non-empty in an environment
type ConfigRequirements struct {
	RequireJWTSecret    bool
	RejectDefaultSecret bool
	RequireDBPassword   bool
}

var requirements = map[Environment]ConfigRequirements{
	Development: {},
	Test:        {},
	CI: {
		RequireJWTSecret:  true,
		RequireDBPassword: true,
	},
	Production: {
		RequireJWTSecret:    true,
		RejectDefaultSecret: true,
		RequireDBPassword:   true,
	},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[GetEnvironment()]

	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "postgres driver requires DB_HOST and DB_NAME")
		}
		if reqs.RequireDBPassword && cfg.DBPassword == "" {
			add("DB_PASSWORD", "required in this environment")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "sqlite driver requires a path")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if reqs.RequireJWTSecret && cfg.JWTSecret == "" {
		add("JWT_SECRET", "required in this environment")
	}
	if reqs.RejectDefaultSecret && cfg.JWTSecret == defaultJWTSecret {
		add("JWT_SECRET", "the development default must not be used")
	}
	if cfg.JWTSecret == "" && !reqs.RequireJWTSecret {
		add("JWT_SECRET", "must not be empty")
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.MediaDir == "" {
			add("MEDIA_DIR", "local storage requires a directory")
		}
	case "s3":
		if cfg.S3BucketName == "" {
			add("S3_BUCKET_NAME", "s3 storage requires a bucket")
		}
	default:
		add("STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend))
	}

	if cfg.MaxUploadBytes <= 0 {
		add("MAX_UPLOAD_BYTES", "must be positive")
	}
	if cfg.RateLimitCreatePerHour <= 0 || cfg.RateLimitModifyPerHour <= 0 {
		add("RATE_LIMIT", "limits must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
